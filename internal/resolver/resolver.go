package resolver

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
)

/*
Responsibilities
- Match a user-supplied free-text filter against observed labels
- Tiering: case-insensitive substring first, then approximate similarity
- Surface the closest candidate for error reporting

The substring tier is a deliberate "first plausible match" policy: candidate
order is extraction order, and the first containment hit wins, not the best
one.
*/

// DefaultCutoff is the minimum similarity for the approximate tier.
const DefaultCutoff = 0.5

type Resolver struct {
	cutoff float64
	logger *zap.Logger
}

func NewResolver(cutoff float64, logger *zap.Logger) *Resolver {
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}
	return &Resolver{
		cutoff: cutoff,
		logger: logger,
	}
}

// Resolve matches query against candidates: substring tier first, then
// approximate tier. The boolean reports whether any tier produced a match.
func (r *Resolver) Resolve(query string, candidates []string) (string, bool) {
	if match, ok := r.resolveSubstring(query, candidates); ok {
		r.logger.Debug("filter resolved by substring",
			zap.String("query", query),
			zap.String("match", match),
		)
		return match, true
	}
	return r.ResolveApprox(query, candidates)
}

// ResolveApprox matches query using the approximate tier only: the single
// highest-scoring candidate wins iff its similarity reaches the cutoff.
func (r *Resolver) ResolveApprox(query string, candidates []string) (string, bool) {
	match, score := r.Closest(query, candidates)
	if match == "" || score < r.cutoff {
		r.logger.Debug("filter unresolved",
			zap.String("query", query),
			zap.String("closest", match),
			zap.Float64("score", score),
		)
		return "", false
	}
	r.logger.Debug("filter resolved by similarity",
		zap.String("query", query),
		zap.String("match", match),
		zap.Float64("score", score),
	)
	return match, true
}

// Closest returns the best-scoring candidate and its similarity, regardless
// of the cutoff. An empty candidate set yields ("", 0).
func (r *Resolver) Closest(query string, candidates []string) (string, float64) {
	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score := similarity(query, candidate)
		if best == "" || score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore
}

func (r *Resolver) resolveSubstring(query string, candidates []string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return "", false
	}
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), needle) {
			return candidate, true
		}
	}
	return "", false
}

// similarity is a normalized edit-distance ratio in [0, 1]:
// 1 - distance/maxRuneLength, computed case-insensitively.
func similarity(a string, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}
	longest := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}
