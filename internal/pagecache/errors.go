package pagecache

import (
	"fmt"

	"github.com/rohmanhakim/film-roulette/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseInvalidURL = "invalid url"
	ErrCauseHashFailed = "hash computation failed"
	ErrCauseCancelled  = "cancelled"
)

type CacheError struct {
	Message   string
	Retryable bool
	Cause     CacheErrorCause
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("pagecache error: %s: %s", e.Cause, e.Message)
}

func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *CacheError) IsRetryable() bool {
	return e.Retryable
}
