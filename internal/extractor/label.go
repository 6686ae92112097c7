package extractor

import "strings"

// SimplifyLabel prepares a raw category label for display: it strips a
// leading country-name prefix (case-insensitive) and removes the standalone
// word "films" (any case). Matching against observed vocabulary always uses
// the raw label; simplification is presentation only.
//
// SimplifyLabel("American science fiction films", "American") == "science fiction"
func SimplifyLabel(label string, country string) string {
	simplified := strings.TrimSpace(label)

	if country != "" && len(simplified) >= len(country) &&
		strings.EqualFold(simplified[:len(country)], country) {
		simplified = strings.TrimSpace(simplified[len(country):])
	}

	words := strings.Fields(simplified)
	kept := words[:0]
	for _, word := range words {
		if strings.EqualFold(word, "films") {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
