package resolver

import (
	"fmt"

	"github.com/rohmanhakim/film-roulette/pkg/failure"
)

// FilterNotFoundError reports a user-supplied filter that matched nothing,
// even after heuristic link generation. It aborts the run; a random choice
// is never silently substituted.
type FilterNotFoundError struct {
	// Query is the unresolved filter text as the user supplied it.
	Query string
	// Level names the descent level: "country", "genre" or "subgenre".
	Level string
	// Suggestion is the closest label from the page-derived candidate set,
	// empty when that set was empty.
	Suggestion string
}

func (e *FilterNotFoundError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("no %s matches filter %q", e.Level, e.Query)
	}
	return fmt.Sprintf("no %s matches filter %q (closest: %q)", e.Level, e.Query, e.Suggestion)
}

func (e *FilterNotFoundError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *FilterNotFoundError) IsRetryable() bool {
	return false
}
