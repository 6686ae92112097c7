package roulette

// FilterSpec carries the optional user-supplied filters, supplied once per
// run and reused across all draws. Matching against observed vocabulary
// happens independently at each level of each draw.
type FilterSpec struct {
	Country  string
	Genre    string
	Subgenre string
}

func (f FilterSpec) HasCountry() bool  { return f.Country != "" }
func (f FilterSpec) HasGenre() bool    { return f.Genre != "" }
func (f FilterSpec) HasSubgenre() bool { return f.Subgenre != "" }

// SelectionResult is one finished draw. Genre and Subgenre hold the
// simplified display labels; Subgenre is empty when no subgenre page was
// visited.
type SelectionResult struct {
	Country  string
	Genre    string
	Subgenre string
	Film     string
}
