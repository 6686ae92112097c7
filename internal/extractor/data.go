package extractor

// CountryLink maps a country label to the listing of that country's genres.
type CountryLink struct {
	// Country is the display label, e.g. "American".
	Country string
	// GenreIndexURL is the absolute URL of the country's genre index page.
	GenreIndexURL string
}

// CategoryLink is one child category of a listing page: a genre when
// extracted from a country's genre index, a subgenre when extracted from a
// genre page. Labels are kept raw; simplification happens at display time.
type CategoryLink struct {
	Label     string
	TargetURL string
}
