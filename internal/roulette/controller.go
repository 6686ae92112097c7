package roulette

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rohmanhakim/film-roulette/internal/extractor"
	"github.com/rohmanhakim/film-roulette/internal/pagecache"
	"github.com/rohmanhakim/film-roulette/internal/resolver"
	"github.com/rohmanhakim/film-roulette/pkg/failure"
	"github.com/rohmanhakim/film-roulette/pkg/randutil"
	"github.com/rohmanhakim/film-roulette/pkg/setutil"
	"github.com/rohmanhakim/film-roulette/pkg/urlutil"
)

/*
Controller is the sole control-plane authority of a run.

Determinism and selection guarantees:
- The controller is the ONLY component that decides which link a draw
  follows; extraction and resolution classify, they never choose.
- All non-determinism flows through the injected random source, so a fixed
  seed reproduces a full walk.
- Transient emptiness (no links, no films, no unique film left) abandons the
  current draw and consumes one attempt; it is never surfaced to the caller.
- Only filter resolution failures and transport failures abort the run.

One draw walks SelectCountry -> SelectGenre -> SelectSubgenre (optional) ->
SelectFilm; draws run strictly one after another.
*/

// DefaultCountryIndexURL is the root of the category hierarchy.
const DefaultCountryIndexURL = "https://en.wikipedia.org/wiki/Category:Films_by_country_and_genre"

// BudgetFactor bounds a run at BudgetFactor * requested draws total
// attempts, so a run over a sparse hierarchy terminates instead of spinning.
const BudgetFactor = 5

// PageLoader is the page-bytes supplier; the cache satisfies it.
type PageLoader interface {
	FetchOrLoad(ctx context.Context, rawUrl string, category pagecache.Category) ([]byte, failure.ClassifiedError)
}

type Controller struct {
	countryIndexUrl string
	origin          string
	pages           PageLoader
	resolver        *resolver.Resolver
	generator       *resolver.HeuristicLinkGenerator
	rng             randutil.Source
	logger          *zap.Logger
}

func NewController(
	countryIndexUrl string,
	pages PageLoader,
	res *resolver.Resolver,
	generator *resolver.HeuristicLinkGenerator,
	rng randutil.Source,
	logger *zap.Logger,
) *Controller {
	if countryIndexUrl == "" {
		countryIndexUrl = DefaultCountryIndexURL
	}
	origin := ""
	if parsed, err := url.Parse(countryIndexUrl); err == nil {
		origin = parsed.Scheme + "://" + parsed.Host
	}
	return &Controller{
		countryIndexUrl: countryIndexUrl,
		origin:          origin,
		pages:           pages,
		resolver:        res,
		generator:       generator,
		rng:             rng,
		logger:          logger,
	}
}

// Run performs up to BudgetFactor*count draw attempts to collect count
// accepted results. Exhausting the budget with fewer results is not an
// error; the caller simply receives a shorter list, deduplicated by film
// and sorted by (Country, Genre, Subgenre, Film).
func (c *Controller) Run(ctx context.Context, count int, filter FilterSpec) ([]SelectionResult, failure.ClassifiedError) {
	if count < 1 {
		return nil, nil
	}

	results := make([]SelectionResult, 0, count)
	chosenFilms := setutil.NewSet[string]()

	// Active filters pin their match across draws to avoid repeated
	// negative lookups; unfiltered levels are redrawn from fresh link
	// lists every draw.
	var pinnedCountry *extractor.CountryLink
	var pinnedGenre *extractor.CategoryLink

	budget := BudgetFactor * count
	for attempt := 1; attempt <= budget && len(results) < count; attempt++ {
		c.logger.Debug("starting draw",
			zap.Int("attempt", attempt),
			zap.Int("budget", budget),
			zap.Int("accepted", len(results)),
		)

		result, err := c.draw(ctx, filter, &pinnedCountry, &pinnedGenre, chosenFilms)
		if err != nil {
			return nil, err
		}
		if result == nil {
			continue
		}

		chosenFilms.Add(result.Film)
		results = append(results, *result)
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Genre != b.Genre {
			return a.Genre < b.Genre
		}
		if a.Subgenre != b.Subgenre {
			return a.Subgenre < b.Subgenre
		}
		return a.Film < b.Film
	})
	return results, nil
}

// draw runs one full descent. A nil result with nil error means the draw
// was abandoned (one attempt consumed, no row produced).
func (c *Controller) draw(
	ctx context.Context,
	filter FilterSpec,
	pinnedCountry **extractor.CountryLink,
	pinnedGenre **extractor.CategoryLink,
	chosenFilms setutil.Set[string],
) (*SelectionResult, failure.ClassifiedError) {
	country, err := c.selectCountry(ctx, filter, pinnedCountry)
	if err != nil || country == nil {
		return nil, err
	}
	c.logger.Info("selected country",
		zap.String("country", country.Country),
		zap.String("url", country.GenreIndexURL),
	)

	genre, err := c.selectGenre(ctx, filter, country, pinnedGenre)
	if err != nil || genre == nil {
		return nil, err
	}
	c.logger.Info("selected genre",
		zap.String("genre", genre.Label),
		zap.String("url", genre.TargetURL),
	)

	films, subgenreLabel, err := c.selectFilmList(ctx, filter, country, genre)
	if err != nil {
		return nil, err
	}

	film, ok := c.selectFilm(films, chosenFilms)
	if !ok {
		c.logger.Info("no selectable film; abandoning draw",
			zap.String("country", country.Country),
			zap.String("genre", genre.Label),
		)
		return nil, nil
	}
	c.logger.Info("selected film", zap.String("film", film))

	return &SelectionResult{
		Country:  country.Country,
		Genre:    extractor.SimplifyLabel(genre.Label, country.Country),
		Subgenre: extractor.SimplifyLabel(subgenreLabel, country.Country),
		Film:     film,
	}, nil
}

func (c *Controller) selectCountry(
	ctx context.Context,
	filter FilterSpec,
	pinned **extractor.CountryLink,
) (*extractor.CountryLink, failure.ClassifiedError) {
	if *pinned != nil {
		return *pinned, nil
	}

	pageBytes, err := c.pages.FetchOrLoad(ctx, c.countryIndexUrl, pagecache.CategoryCountry)
	if err != nil {
		return nil, err
	}
	links := extractor.CountryLinks(pageBytes, c.parseBase(c.countryIndexUrl))
	if len(links) == 0 {
		c.logger.Info("no country links found; abandoning draw")
		return nil, nil
	}
	for i := range links {
		links[i].GenreIndexURL = urlutil.RepairDoubledOrigin(links[i].GenreIndexURL, c.origin)
	}

	if filter.HasCountry() {
		chosen, rerr := c.matchCountry(filter.Country, links)
		if rerr != nil {
			return nil, rerr
		}
		*pinned = chosen
		return chosen, nil
	}

	return &links[c.rng.Intn(len(links))], nil
}

// matchCountry tries exact case-insensitive equality first, then the
// approximate tier only. The substring tier is skipped for country because
// country names are short and ambiguous.
func (c *Controller) matchCountry(query string, links []extractor.CountryLink) (*extractor.CountryLink, failure.ClassifiedError) {
	labels := make([]string, len(links))
	for i, link := range links {
		labels[i] = link.Country
	}

	for i := range links {
		if strings.EqualFold(links[i].Country, query) {
			return &links[i], nil
		}
	}

	if match, ok := c.resolver.ResolveApprox(query, labels); ok {
		for i := range links {
			if links[i].Country == match {
				return &links[i], nil
			}
		}
	}

	suggestion, _ := c.resolver.Closest(query, labels)
	return nil, &resolver.FilterNotFoundError{
		Query:      query,
		Level:      "country",
		Suggestion: suggestion,
	}
}

func (c *Controller) selectGenre(
	ctx context.Context,
	filter FilterSpec,
	country *extractor.CountryLink,
	pinned **extractor.CategoryLink,
) (*extractor.CategoryLink, failure.ClassifiedError) {
	if *pinned != nil {
		return *pinned, nil
	}

	pageBytes, err := c.pages.FetchOrLoad(ctx, country.GenreIndexURL, pagecache.CategoryGenre)
	if err != nil {
		return nil, err
	}
	links := extractor.GenreLinks(pageBytes, c.parseBase(country.GenreIndexURL))
	if len(links) == 0 {
		c.logger.Info("no genre links found; abandoning draw",
			zap.String("country", country.Country),
		)
		return nil, nil
	}

	if filter.HasGenre() {
		chosen, rerr := c.matchGenre(filter.Genre, links)
		if rerr != nil {
			return nil, rerr
		}
		// Pin only when the country is pinned too; under a random
		// country the genre vocabulary changes every draw.
		if filter.HasCountry() {
			*pinned = chosen
		}
		return chosen, nil
	}

	return &links[c.rng.Intn(len(links))], nil
}

// matchGenre uses the full tiering; substring lets "science fiction" match
// "American science fiction films".
func (c *Controller) matchGenre(query string, links []extractor.CategoryLink) (*extractor.CategoryLink, failure.ClassifiedError) {
	labels := make([]string, len(links))
	for i, link := range links {
		labels[i] = link.Label
	}

	if match, ok := c.resolver.Resolve(query, labels); ok {
		for i := range links {
			if links[i].Label == match {
				return &links[i], nil
			}
		}
	}

	suggestion, _ := c.resolver.Closest(query, labels)
	return nil, &resolver.FilterNotFoundError{
		Query:      query,
		Level:      "genre",
		Suggestion: suggestion,
	}
}

// selectFilmList reads the genre page's film list and subgenre links and
// decides which level supplies the candidate films. The returned label is
// the raw subgenre label, empty when the genre-level list is used.
func (c *Controller) selectFilmList(
	ctx context.Context,
	filter FilterSpec,
	country *extractor.CountryLink,
	genre *extractor.CategoryLink,
) ([]string, string, failure.ClassifiedError) {
	pageBytes, err := c.pages.FetchOrLoad(ctx, genre.TargetURL, pagecache.CategoryFilm)
	if err != nil {
		return nil, "", err
	}
	films := extractor.FilmTitles(pageBytes)
	subgenreLinks := extractor.SubcategoryLinks(pageBytes, c.parseBase(genre.TargetURL))

	if filter.HasSubgenre() {
		chosen, rerr := c.resolveSubgenre(filter.Subgenre, subgenreLinks, country, genre)
		if rerr != nil {
			return nil, "", rerr
		}
		return c.diveSubgenre(ctx, chosen)
	}

	if len(subgenreLinks) == 0 {
		return films, "", nil
	}

	if c.rng.Coin() {
		chosen := subgenreLinks[c.rng.Intn(len(subgenreLinks))]
		c.logger.Info("diving into subgenre page", zap.String("url", chosen.TargetURL))
		return c.diveSubgenre(ctx, &chosen)
	}

	if len(films) > 0 {
		return films, "", nil
	}

	// The stay branch landed on an empty film list: dive into a freshly
	// random subgenre instead of failing. The dive branch gets no such
	// fallback; the asymmetry is intentional.
	chosen := subgenreLinks[c.rng.Intn(len(subgenreLinks))]
	c.logger.Info("no films on current page; diving into subgenre page",
		zap.String("url", chosen.TargetURL),
	)
	return c.diveSubgenre(ctx, &chosen)
}

// resolveSubgenre matches the filter against page-derived subgenre labels,
// falling back to heuristically generated candidates. An unresolvable
// filter fails with the closest page-derived label as the suggestion.
func (c *Controller) resolveSubgenre(
	query string,
	links []extractor.CategoryLink,
	country *extractor.CountryLink,
	genre *extractor.CategoryLink,
) (*extractor.CategoryLink, failure.ClassifiedError) {
	labels := make([]string, len(links))
	for i, link := range links {
		labels[i] = link.Label
	}

	if match, ok := c.resolver.Resolve(query, labels); ok {
		for i := range links {
			if links[i].Label == match {
				return &links[i], nil
			}
		}
	}

	simplifiedGenre := extractor.SimplifyLabel(genre.Label, country.Country)
	generated := c.generator.Generate(country.Country, simplifiedGenre)
	generatedLabels := make([]string, len(generated))
	for i, link := range generated {
		generatedLabels[i] = link.Label
	}

	if match, ok := c.resolver.Resolve(query, generatedLabels); ok {
		for i := range generated {
			if generated[i].Label == match {
				c.logger.Info("guessed subgenre category",
					zap.String("query", query),
					zap.String("url", generated[i].TargetURL),
				)
				return &generated[i], nil
			}
		}
	}

	suggestion, _ := c.resolver.Closest(query, labels)
	return nil, &resolver.FilterNotFoundError{
		Query:      query,
		Level:      "subgenre",
		Suggestion: suggestion,
	}
}

// diveSubgenre replaces the genre-level film list with the subgenre page's
// list. A guessed page with no films yields an empty list, which abandons
// the draw downstream rather than failing the run.
func (c *Controller) diveSubgenre(ctx context.Context, link *extractor.CategoryLink) ([]string, string, failure.ClassifiedError) {
	pageBytes, err := c.pages.FetchOrLoad(ctx, link.TargetURL, pagecache.CategorySubgenre)
	if err != nil {
		return nil, "", err
	}
	return extractor.FilmTitles(pageBytes), link.Label, nil
}

// selectFilm draws uniformly from the titles not yet chosen in this run.
func (c *Controller) selectFilm(films []string, chosenFilms setutil.Set[string]) (string, bool) {
	candidates := make([]string, 0, len(films))
	for _, film := range films {
		if !chosenFilms.Contains(film) {
			candidates = append(candidates, film)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[c.rng.Intn(len(candidates))], true
}

func (c *Controller) parseBase(rawUrl string) *url.URL {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return nil
	}
	return parsed
}
