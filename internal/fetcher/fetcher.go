package fetcher

import (
	"context"

	"github.com/rohmanhakim/film-roulette/pkg/failure"
	"github.com/rohmanhakim/film-roulette/pkg/retry"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		fetchParam FetchParam,
		retryParam retry.RetryParam,
	) (FetchResult, failure.ClassifiedError)
}
