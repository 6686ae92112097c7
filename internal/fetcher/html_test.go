package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rohmanhakim/film-roulette/internal/fetcher"
	"github.com/rohmanhakim/film-roulette/pkg/failure"
	"github.com/rohmanhakim/film-roulette/pkg/retry"
	"github.com/rohmanhakim/film-roulette/pkg/timeutil"
)

func testRetryParam(maxAttempts int) retry.RetryParam {
	return retry.NewRetryParam(
		0,
		0,
		1,
		maxAttempts,
		timeutil.NewBackoffParam(time.Millisecond, 2.0, 5*time.Millisecond),
	)
}

func mustParseURL(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return *u
}

func TestFetchSuccess(t *testing.T) {
	var seenAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html>body</html>"))
	}))
	defer server.Close()

	h := fetcher.NewHtmlFetcher(5*time.Second, zap.NewNop())
	param := fetcher.NewFetchParam(mustParseURL(t, server.URL), "film-roulette-test")

	result, err := h.Fetch(context.Background(), param, testRetryParam(3))

	require.Nil(t, err)
	assert.Equal(t, "<html>body</html>", string(result.Body()))
	assert.Equal(t, http.StatusOK, result.Code())
	assert.Equal(t, "film-roulette-test", seenAgent)
}

func TestFetch404FailsWithoutRetry(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	h := fetcher.NewHtmlFetcher(5*time.Second, zap.NewNop())
	param := fetcher.NewFetchParam(mustParseURL(t, server.URL), "test")

	_, err := h.Fetch(context.Background(), param, testRetryParam(3))

	require.Error(t, err)
	assert.Equal(t, failure.SeverityFatal, err.Severity())
	assert.Equal(t, 1, requests, "4xx responses must not be retried")
}

func TestFetch403FailsWithoutRetry(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	h := fetcher.NewHtmlFetcher(5*time.Second, zap.NewNop())
	param := fetcher.NewFetchParam(mustParseURL(t, server.URL), "test")

	_, err := h.Fetch(context.Background(), param, testRetryParam(3))

	require.Error(t, err)
	assert.Equal(t, 1, requests)
}

func TestFetch500RetriesUntilExhausted(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	h := fetcher.NewHtmlFetcher(5*time.Second, zap.NewNop())
	param := fetcher.NewFetchParam(mustParseURL(t, server.URL), "test")

	_, err := h.Fetch(context.Background(), param, testRetryParam(3))

	require.Error(t, err)
	assert.Equal(t, 3, requests, "5xx responses are retried up to the attempt budget")
}

func TestFetch500RecoversWithinBudget(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("<html>recovered</html>"))
	}))
	defer server.Close()

	h := fetcher.NewHtmlFetcher(5*time.Second, zap.NewNop())
	param := fetcher.NewFetchParam(mustParseURL(t, server.URL), "test")

	result, err := h.Fetch(context.Background(), param, testRetryParam(3))

	require.Nil(t, err)
	assert.Equal(t, "<html>recovered</html>", string(result.Body()))
	assert.Equal(t, 3, requests)
}

func TestFetch429Retries(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	h := fetcher.NewHtmlFetcher(5*time.Second, zap.NewNop())
	param := fetcher.NewFetchParam(mustParseURL(t, server.URL), "test")

	result, err := h.Fetch(context.Background(), param, testRetryParam(3))

	require.Nil(t, err)
	assert.Equal(t, "<html>ok</html>", string(result.Body()))
	assert.Equal(t, 2, requests)
}

func TestFetchConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := server.URL
	server.Close()

	h := fetcher.NewHtmlFetcher(time.Second, zap.NewNop())
	param := fetcher.NewFetchParam(mustParseURL(t, deadURL), "test")

	_, err := h.Fetch(context.Background(), param, testRetryParam(2))

	require.Error(t, err)
}
