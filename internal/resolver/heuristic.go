package resolver

import (
	"strings"

	"github.com/rohmanhakim/film-roulette/internal/extractor"
	"github.com/rohmanhakim/film-roulette/pkg/setutil"
)

// DefaultVocabulary is the fixed list of common subgenre tokens crossed with
// the current country/genre context when no page-derived link matches.
var DefaultVocabulary = []string{
	"time travel",
	"dystopian",
	"space opera",
	"cyberpunk",
	"alien invasion",
}

const defaultOrigin = "https://en.wikipedia.org"

// HeuristicLinkGenerator synthesizes plausible category links for subgenre
// filters that no listing page links to directly. It guesses the
// category-title convention ("Category:<slug>_films") without verifying the
// pages exist: a guessed page with no films costs one abandoned draw, which
// beats rejecting a plausible filter outright.
type HeuristicLinkGenerator struct {
	origin     string
	vocabulary []string
}

func NewHeuristicLinkGenerator(origin string, vocabulary []string) *HeuristicLinkGenerator {
	if origin == "" {
		origin = defaultOrigin
	}
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	return &HeuristicLinkGenerator{
		origin:     origin,
		vocabulary: vocabulary,
	}
}

// Generate crosses each of {"<country> <genre>", "<country>", "<genre>"}
// with every vocabulary entry, yielding labels like
// "American science fiction time travel films" and their guessed URLs.
func (g *HeuristicLinkGenerator) Generate(country string, genre string) []extractor.CategoryLink {
	country = strings.TrimSpace(country)
	genre = strings.TrimSpace(genre)

	var bases []string
	seen := setutil.NewSet[string]()
	for _, base := range []string{
		strings.TrimSpace(country + " " + genre),
		country,
		genre,
	} {
		if base == "" || seen.Contains(base) {
			continue
		}
		seen.Add(base)
		bases = append(bases, base)
	}

	var links []extractor.CategoryLink
	for _, base := range bases {
		for _, keyword := range g.vocabulary {
			label := base + " " + keyword + " films"
			links = append(links, extractor.CategoryLink{
				Label:     label,
				TargetURL: g.origin + "/wiki/Category:" + strings.ReplaceAll(label, " ", "_"),
			})
		}
	}
	return links
}
