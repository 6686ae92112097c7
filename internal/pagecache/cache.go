package pagecache

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/rohmanhakim/film-roulette/internal/fetcher"
	"github.com/rohmanhakim/film-roulette/pkg/failure"
	"github.com/rohmanhakim/film-roulette/pkg/fileutil"
	"github.com/rohmanhakim/film-roulette/pkg/hashutil"
	"github.com/rohmanhakim/film-roulette/pkg/limiter"
	"github.com/rohmanhakim/film-roulette/pkg/retry"
	"github.com/rohmanhakim/film-roulette/pkg/urlutil"
)

/*
Responsibilities
- Serve page bytes from disk when a fresh copy exists
- Fetch, then persist, when the entry is missing or expired
- Pace network fetches through the rate limiter

Storage Characteristics
- One regular file per page under <root>/<category>/<urlhash>.html
- File mtime doubles as the freshness timestamp
- Expired entries are ignored and overwritten, never deleted
- Writes go through temp-file-then-rename, so a crash mid-write cannot
  leave a truncated entry that would later be served as valid
*/

// DefaultExpiration is how long a stored page counts as fresh.
const DefaultExpiration = 7 * 24 * time.Hour

type Cache struct {
	root       string
	expiration time.Duration
	hashAlgo   hashutil.HashAlgo
	userAgent  string
	retryParam retry.RetryParam
	transport  fetcher.Fetcher
	limiter    limiter.RateLimiter
	logger     *zap.Logger
}

func New(
	root string,
	expiration time.Duration,
	hashAlgo hashutil.HashAlgo,
	userAgent string,
	retryParam retry.RetryParam,
	transport fetcher.Fetcher,
	rateLimiter limiter.RateLimiter,
	logger *zap.Logger,
) *Cache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Cache{
		root:       root,
		expiration: expiration,
		hashAlgo:   hashAlgo,
		userAgent:  userAgent,
		retryParam: retryParam,
		transport:  transport,
		limiter:    rateLimiter,
		logger:     logger,
	}
}

// FetchOrLoad returns the page bytes for rawUrl, serving a stored copy when
// one exists and is younger than the expiration window, and fetching over
// the network otherwise. A stale entry whose refetch fails is never served;
// the transport failure propagates instead.
func (c *Cache) FetchOrLoad(ctx context.Context, rawUrl string, category Category) ([]byte, failure.ClassifiedError) {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return nil, &CacheError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseInvalidURL,
		}
	}
	normalized := urlutil.Normalize(*parsed)

	entryPath, cerr := c.entryPath(normalized.String(), category)
	if cerr != nil {
		return nil, cerr
	}

	if payload, ok := c.loadFresh(entryPath); ok {
		c.logger.Info("using cached page",
			zap.String("category", string(category)),
			zap.String("url", normalized.String()),
		)
		return payload, nil
	}

	c.logger.Info("fetching page",
		zap.String("category", string(category)),
		zap.String("url", normalized.String()),
	)

	if cerr := c.waitPoliteness(ctx, normalized.Host); cerr != nil {
		return nil, cerr
	}

	fetchParam := fetcher.NewFetchParam(normalized, c.userAgent)
	result, ferr := c.transport.Fetch(ctx, fetchParam, c.retryParam)
	c.limiter.MarkLastFetchAsNow(normalized.Host)
	if ferr != nil {
		return nil, ferr
	}

	c.store(entryPath, result.Body())
	return result.Body(), nil
}

// entryPath derives <root>/<category>/<hash>.html for the normalized URL.
// The hash covers the URL including query and fragment verbatim.
func (c *Cache) entryPath(normalizedUrl string, category Category) (string, failure.ClassifiedError) {
	urlHash, err := hashutil.HashBytes([]byte(normalizedUrl), c.hashAlgo)
	if err != nil {
		return "", &CacheError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashFailed,
		}
	}
	return filepath.Join(c.root, string(category), urlHash+".html"), nil
}

// loadFresh returns the stored payload iff the entry exists and its mtime is
// within the expiration window. Expired or unreadable entries are treated as
// absent.
func (c *Cache) loadFresh(entryPath string) ([]byte, bool) {
	info, err := os.Stat(entryPath)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) >= c.expiration {
		return nil, false
	}
	payload, err := os.ReadFile(entryPath)
	if err != nil {
		return nil, false
	}
	return payload, true
}

// store overwrites the entry atomically. A failed write is logged but does
// not fail the call: the fetched bytes are already in hand, and the next run
// simply refetches.
func (c *Cache) store(entryPath string, payload []byte) {
	dir := filepath.Dir(entryPath)
	if err := fileutil.EnsureDir(dir); err != nil {
		c.logger.Warn("cannot create cache directory", zap.String("dir", dir), zap.Error(err))
		return
	}
	if err := fileutil.WriteFileAtomic(dir, filepath.Base(entryPath), payload); err != nil {
		c.logger.Warn("cannot write cache entry", zap.String("path", entryPath), zap.Error(err))
	}
}

func (c *Cache) waitPoliteness(ctx context.Context, host string) failure.ClassifiedError {
	delay := c.limiter.ResolveDelay(host)
	if delay <= 0 {
		return nil
	}
	c.logger.Debug("delaying fetch for politeness",
		zap.String("host", host),
		zap.Duration("delay", delay),
	)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return &CacheError{
			Message:   ctx.Err().Error(),
			Retryable: false,
			Cause:     ErrCauseCancelled,
		}
	case <-timer.C:
		return nil
	}
}
