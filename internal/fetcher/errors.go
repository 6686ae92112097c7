package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/film-roulette/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseTimeout               = "timeout"
	ErrCauseNetworkFailure        = "network issues"
	ErrCauseReadResponseBodyError = "failed to read response body"
	ErrCauseRequestPageForbidden  = "forbidden"
	ErrCauseRequestTooMany        = "too many requests"
	ErrCauseRequest4xx            = "4xx"
	ErrCauseRequest5xx            = "5xx"
)

// FetchError is the transport failure surface: any non-2xx response or
// connection-level failure ends up here. It is fatal at run level; the
// descent controller never retries it (bounded retry happens inside the
// fetcher, before the error escapes).
type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s", e.Cause)
}

func (e *FetchError) Severity() failure.Severity {
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}
