package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rohmanhakim/film-roulette/pkg/failure"
	"github.com/rohmanhakim/film-roulette/pkg/retry"
)

/*
Responsibilities

- Perform HTTP requests
- Apply the identifying User-Agent header and timeouts
- Classify responses

Fetch Semantics

- Only successful (2xx) responses are returned as bytes
- Connection failures and 5xx/429 responses are retried with backoff
- Other non-2xx responses fail immediately

The fetcher never parses content; it only returns bytes and metadata.
*/

type HtmlFetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHtmlFetcher(timeout time.Duration, logger *zap.Logger) HtmlFetcher {
	return HtmlFetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (h *HtmlFetcher) Fetch(
	ctx context.Context,
	fetchParam FetchParam,
	retryParam retry.RetryParam,
) (FetchResult, failure.ClassifiedError) {
	startTime := time.Now()

	result, err := h.fetchWithRetry(ctx, fetchParam.fetchUrl, fetchParam.userAgent, retryParam)

	if err != nil {
		h.logger.Debug("fetch failed",
			zap.String("url", fetchParam.fetchUrl.String()),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err),
		)
		return FetchResult{}, err
	}

	h.logger.Debug("fetch succeeded",
		zap.String("url", fetchParam.fetchUrl.String()),
		zap.Int("status", result.Code()),
		zap.Int("bytes", len(result.Body())),
		zap.Duration("duration", time.Since(startTime)),
	)
	return result, nil
}

func (h *HtmlFetcher) fetchWithRetry(
	ctx context.Context,
	fetchUrl url.URL,
	userAgent string,
	retryParam retry.RetryParam,
) (FetchResult, failure.ClassifiedError) {
	fetchTask := func() (FetchResult, failure.ClassifiedError) {
		return h.performFetch(ctx, fetchUrl, userAgent)
	}

	return retry.Retry(retryParam, fetchTask)
}

func (h *HtmlFetcher) performFetch(ctx context.Context, fetchUrl url.URL, userAgent string) (FetchResult, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchUrl.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		// Network/transport errors are retryable
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		// Server errors (5xx) are retryable
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("server error: %d", resp.StatusCode),
			Retryable: true,
			Cause:     ErrCauseRequest5xx,
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		return FetchResult{}, &FetchError{
			Message:   "rate limited (429)",
			Retryable: true,
			Cause:     ErrCauseRequestTooMany,
		}

	case resp.StatusCode == http.StatusForbidden:
		return FetchResult{}, &FetchError{
			Message:   "access forbidden (403)",
			Retryable: false,
			Cause:     ErrCauseRequestPageForbidden,
		}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("unexpected status: %d", resp.StatusCode),
			Retryable: false,
			Cause:     ErrCauseRequest4xx,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}

	headers := make(map[string]string, len(resp.Header))
	for key := range resp.Header {
		headers[key] = resp.Header.Get(key)
	}

	return FetchResult{
		url:  fetchUrl,
		body: body,
		meta: ResponseMeta{
			statusCode:      resp.StatusCode,
			responseHeaders: headers,
		},
	}, nil
}
