package extractor

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rohmanhakim/film-roulette/pkg/setutil"
	"github.com/rohmanhakim/film-roulette/pkg/urlutil"
)

/*
Responsibilities
- Turn fetched page bytes into typed link lists
- Tolerate the two known listing layouts, with a link-soup fallback
- Deduplicate labels within one extraction call (first occurrence wins)

Extraction never fails: a page with no recognizable structure yields an
empty list. Output order follows document order, so re-extracting the same
bytes yields an identical list.
*/

var countryLinkPattern = regexp.MustCompile(`(?i)^(.+?) films by genre$`)

// strategy is one pure extraction attempt over a parsed page. Strategies are
// tried in order; the first non-empty result wins.
type strategy func(doc *goquery.Document, baseUrl *url.URL) []CategoryLink

var genreStrategies = []strategy{subcategoriesContainer, categoryContainer, linkSoup}

// Subgenre enumeration trusts only the canonical subcategories container.
// The class-based fallback also matches the film list wrapper inside the
// pages section, which would turn film titles into phantom subgenres.
var subgenreStrategies = []strategy{subcategoriesContainer}

// CountryLinks extracts one link per "<Country> films by genre" anchor.
func CountryLinks(pageBytes []byte, baseUrl *url.URL) []CountryLink {
	doc := parse(pageBytes)
	if doc == nil {
		return nil
	}

	var links []CountryLink
	seen := setutil.NewSet[string]()
	doc.Find(selectorAllAnchors).Each(func(_ int, anchor *goquery.Selection) {
		text := strings.TrimSpace(anchor.Text())
		match := countryLinkPattern.FindStringSubmatch(text)
		if match == nil {
			return
		}
		country := strings.TrimSpace(match[1])
		if seen.Contains(country) {
			return
		}
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		target, ok := urlutil.Absolute(baseUrl, href)
		if !ok {
			return
		}
		seen.Add(country)
		links = append(links, CountryLink{
			Country:       country,
			GenreIndexURL: target,
		})
	})
	return links
}

// GenreLinks extracts the child genre categories of a country's genre index
// page. When neither structured container is present, the link-soup fallback
// keeps anchors whose visible text plausibly denotes a film category.
func GenreLinks(pageBytes []byte, baseUrl *url.URL) []CategoryLink {
	return runStrategies(genreStrategies, pageBytes, baseUrl)
}

// SubcategoryLinks extracts the subgenre links of a genre page. A genre page
// without the subcategories container has no subgenres.
func SubcategoryLinks(pageBytes []byte, baseUrl *url.URL) []CategoryLink {
	return runStrategies(subgenreStrategies, pageBytes, baseUrl)
}

// FilmTitles extracts the film titles of a listing page's pages section,
// preserving order and keeping the first occurrence of a repeated title.
func FilmTitles(pageBytes []byte) []string {
	doc := parse(pageBytes)
	if doc == nil {
		return nil
	}

	var titles []string
	seen := setutil.NewSet[string]()
	doc.Find(selectorPageItems).Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Text())
		if title == "" || seen.Contains(title) {
			return
		}
		seen.Add(title)
		titles = append(titles, title)
	})
	return titles
}

func runStrategies(strategies []strategy, pageBytes []byte, baseUrl *url.URL) []CategoryLink {
	doc := parse(pageBytes)
	if doc == nil {
		return nil
	}
	for _, extract := range strategies {
		if links := extract(doc, baseUrl); len(links) > 0 {
			return links
		}
	}
	return nil
}

// parse builds a DOM from page bytes. Malformed HTML yields a partial DOM
// rather than an error; only a reader failure returns nil.
func parse(pageBytes []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageBytes))
	if err != nil {
		return nil
	}
	return doc
}

func subcategoriesContainer(doc *goquery.Document, baseUrl *url.URL) []CategoryLink {
	return groupAnchors(doc.Find(selectorSubcategories).First(), baseUrl)
}

func categoryContainer(doc *goquery.Document, baseUrl *url.URL) []CategoryLink {
	return groupAnchors(doc.Find(selectorCategoryFallback).First(), baseUrl)
}

// groupAnchors enumerates the list items of a category container's groups.
func groupAnchors(container *goquery.Selection, baseUrl *url.URL) []CategoryLink {
	var links []CategoryLink
	seen := setutil.NewSet[string]()
	container.Find(selectorGroupAnchors).Each(func(_ int, anchor *goquery.Selection) {
		label := strings.TrimSpace(anchor.Text())
		href, ok := anchor.Attr("href")
		if !ok || label == "" || seen.Contains(label) {
			return
		}
		target, ok := urlutil.Absolute(baseUrl, href)
		if !ok {
			return
		}
		seen.Add(label)
		links = append(links, CategoryLink{
			Label:     label,
			TargetURL: target,
		})
	})
	return links
}

// linkSoup keeps every anchor whose visible text contains the token "film",
// a heuristic for "this anchor plausibly denotes a film-related category"
// on pages missing both structured containers.
func linkSoup(doc *goquery.Document, baseUrl *url.URL) []CategoryLink {
	var links []CategoryLink
	seen := setutil.NewSet[string]()
	doc.Find(selectorAllAnchors).Each(func(_ int, anchor *goquery.Selection) {
		label := strings.TrimSpace(anchor.Text())
		if label == "" || seen.Contains(label) {
			return
		}
		if !strings.Contains(strings.ToLower(label), "film") {
			return
		}
		href, ok := anchor.Attr("href")
		if !ok {
			return
		}
		target, ok := urlutil.Absolute(baseUrl, href)
		if !ok {
			return
		}
		seen.Add(label)
		links = append(links, CategoryLink{
			Label:     label,
			TargetURL: target,
		})
	})
	return links
}
