package roulette_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/rohmanhakim/film-roulette/internal/pagecache"
	"github.com/rohmanhakim/film-roulette/pkg/failure"
)

// fakeLoader serves canned page bytes keyed by URL and records every request.
type fakeLoader struct {
	pages map[string]string
	errs  map[string]failure.ClassifiedError
	calls []string
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		pages: make(map[string]string),
		errs:  make(map[string]failure.ClassifiedError),
	}
}

func (f *fakeLoader) FetchOrLoad(_ context.Context, rawUrl string, _ pagecache.Category) ([]byte, failure.ClassifiedError) {
	f.calls = append(f.calls, rawUrl)
	if err, ok := f.errs[rawUrl]; ok {
		return nil, err
	}
	if page, ok := f.pages[rawUrl]; ok {
		return []byte(page), nil
	}
	// Unknown pages behave like empty listings
	return []byte("<html><body></body></html>"), nil
}

func (f *fakeLoader) countCalls(rawUrl string) int {
	count := 0
	for _, call := range f.calls {
		if call == rawUrl {
			count++
		}
	}
	return count
}

// scriptedSource replays fixed outcomes; exhausted scripts fall back to 0
// and tails so long walks stay deterministic.
type scriptedSource struct {
	ints  []int
	coins []bool
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	next := s.ints[0]
	s.ints = s.ints[1:]
	return next % n
}

func (s *scriptedSource) Coin() bool {
	if len(s.coins) == 0 {
		return false
	}
	next := s.coins[0]
	s.coins = s.coins[1:]
	return next
}

// Page builders producing the canonical subcategories/pages layout.

func countryIndexPage(countries ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="mw-subcategories"><div class="mw-category-group"><ul>`)
	for _, country := range countries {
		fmt.Fprintf(&b,
			`<li><a href="/wiki/Category:%s_films_by_genre">%s films by genre</a></li>`,
			country, country,
		)
	}
	b.WriteString(`</ul></div></div></body></html>`)
	return b.String()
}

func categoryListingPage(subcategories []string, films []string) string {
	var b strings.Builder
	b.WriteString(`<html><body>`)
	if len(subcategories) > 0 {
		b.WriteString(`<div id="mw-subcategories"><div class="mw-category-group"><ul>`)
		for _, label := range subcategories {
			fmt.Fprintf(&b,
				`<li><a href="/wiki/Category:%s">%s</a></li>`,
				strings.ReplaceAll(label, " ", "_"), label,
			)
		}
		b.WriteString(`</ul></div></div>`)
	}
	if len(films) > 0 {
		b.WriteString(`<div id="mw-pages"><ul>`)
		for _, film := range films {
			fmt.Fprintf(&b, `<li><a href="/wiki/%s">%s</a></li>`, strings.ReplaceAll(film, " ", "_"), film)
		}
		b.WriteString(`</ul></div>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func categoryURL(label string) string {
	return "https://en.wikipedia.org/wiki/Category:" + strings.ReplaceAll(label, " ", "_")
}
