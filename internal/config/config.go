package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	//===============
	//  Hierarchy
	//===============
	// Root listing page mapping countries to their genre index URLs.
	countryIndexUrl string
	// Tokens crossed with country/genre context when guessing subgenre
	// category titles that no listing page links to directly.
	heuristicVocabulary []string

	//===============
	// Cache
	//===============
	// Root directory of the page cache, partitioned by category name.
	cacheDir string
	// How long a cached page counts as fresh before it is refetched.
	cacheExpiration time.Duration
	// Hash algorithm used for cache filenames: "sha256" or "blake3".
	hashAlgo string

	//===============
	// Politeness
	//===============
	// Identifying client string attached to every request.
	userAgent string
	// Minimum, fixed waiting time enforced between two requests to the
	// same host.
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	jitter time.Duration
	// Controls the random number generator. 0 seeds from the clock.
	randomSeed int64

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request.
	timeout time.Duration
	// Maximum attempts per fetch before the transport failure escapes.
	maxAttempt int
	// Initial delay for backoff between attempts.
	backoffInitialDuration time.Duration
	// Multiplier during exponential backoff.
	backoffMultiplier float64
	// Capped maximum delay for backoff.
	backoffMaxDuration time.Duration

	//===============
	// Output
	//===============
	// Verbosity: "silent", "verbose" or "debug".
	logLevel string
}

const (
	defaultCountryIndexUrl = "https://en.wikipedia.org/wiki/Category:Films_by_country_and_genre"
	defaultCacheDir        = "cache"
	defaultCacheExpiration = 7 * 24 * time.Hour
	defaultHashAlgo        = "sha256"
	defaultUserAgent       = "Mozilla/5.0 (compatible; FilmRouletteBot/1.0)"
	defaultTimeout         = 30 * time.Second
	defaultMaxAttempt      = 3
	defaultBackoffInitial  = 1 * time.Second
	defaultBackoffMult     = 2.0
	defaultBackoffMax      = 30 * time.Second
	defaultLogLevel        = "silent"
)

func (c Config) CountryIndexURL() string            { return c.countryIndexUrl }
func (c Config) HeuristicVocabulary() []string      { return c.heuristicVocabulary }
func (c Config) CacheDir() string                   { return c.cacheDir }
func (c Config) CacheExpiration() time.Duration     { return c.cacheExpiration }
func (c Config) HashAlgo() string                   { return c.hashAlgo }
func (c Config) UserAgent() string                  { return c.userAgent }
func (c Config) BaseDelay() time.Duration           { return c.baseDelay }
func (c Config) Jitter() time.Duration              { return c.jitter }
func (c Config) RandomSeed() int64                  { return c.randomSeed }
func (c Config) Timeout() time.Duration             { return c.timeout }
func (c Config) MaxAttempt() int                    { return c.maxAttempt }
func (c Config) BackoffInitial() time.Duration      { return c.backoffInitialDuration }
func (c Config) BackoffMultiplier() float64         { return c.backoffMultiplier }
func (c Config) BackoffMaxDuration() time.Duration  { return c.backoffMaxDuration }
func (c Config) LogLevel() string                   { return c.logLevel }

// Builder accumulates overrides on top of defaults; Build validates.
type Builder struct {
	cfg Config
}

// WithDefault starts a builder with the documented default values.
func WithDefault() *Builder {
	return &Builder{cfg: Config{
		countryIndexUrl:        defaultCountryIndexUrl,
		cacheDir:               defaultCacheDir,
		cacheExpiration:        defaultCacheExpiration,
		hashAlgo:               defaultHashAlgo,
		userAgent:              defaultUserAgent,
		timeout:                defaultTimeout,
		maxAttempt:             defaultMaxAttempt,
		backoffInitialDuration: defaultBackoffInitial,
		backoffMultiplier:      defaultBackoffMult,
		backoffMaxDuration:     defaultBackoffMax,
		logLevel:               defaultLogLevel,
	}}
}

func (b *Builder) WithCountryIndexURL(u string) *Builder {
	b.cfg.countryIndexUrl = u
	return b
}

func (b *Builder) WithHeuristicVocabulary(vocabulary []string) *Builder {
	b.cfg.heuristicVocabulary = vocabulary
	return b
}

func (b *Builder) WithCacheDir(dir string) *Builder {
	b.cfg.cacheDir = dir
	return b
}

func (b *Builder) WithCacheExpiration(expiration time.Duration) *Builder {
	b.cfg.cacheExpiration = expiration
	return b
}

func (b *Builder) WithHashAlgo(algo string) *Builder {
	b.cfg.hashAlgo = algo
	return b
}

func (b *Builder) WithUserAgent(userAgent string) *Builder {
	b.cfg.userAgent = userAgent
	return b
}

func (b *Builder) WithBaseDelay(baseDelay time.Duration) *Builder {
	b.cfg.baseDelay = baseDelay
	return b
}

func (b *Builder) WithJitter(jitter time.Duration) *Builder {
	b.cfg.jitter = jitter
	return b
}

func (b *Builder) WithRandomSeed(randomSeed int64) *Builder {
	b.cfg.randomSeed = randomSeed
	return b
}

func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.cfg.timeout = timeout
	return b
}

func (b *Builder) WithMaxAttempt(maxAttempt int) *Builder {
	b.cfg.maxAttempt = maxAttempt
	return b
}

func (b *Builder) WithLogLevel(level string) *Builder {
	b.cfg.logLevel = level
	return b
}

func (b *Builder) Build() (Config, error) {
	cfg := b.cfg
	if cfg.countryIndexUrl == "" {
		return Config{}, fmt.Errorf("%w: country index URL cannot be empty", ErrInvalidConfig)
	}
	if cfg.cacheDir == "" {
		return Config{}, fmt.Errorf("%w: cache directory cannot be empty", ErrInvalidConfig)
	}
	if cfg.cacheExpiration <= 0 {
		return Config{}, fmt.Errorf("%w: cache expiration must be positive", ErrInvalidConfig)
	}
	if cfg.hashAlgo != "sha256" && cfg.hashAlgo != "blake3" {
		return Config{}, fmt.Errorf("%w: unknown hash algorithm %q", ErrInvalidConfig, cfg.hashAlgo)
	}
	if cfg.maxAttempt < 1 {
		return Config{}, fmt.Errorf("%w: max attempt must be at least 1", ErrInvalidConfig)
	}
	switch cfg.logLevel {
	case "silent", "verbose", "debug":
	default:
		return Config{}, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, cfg.logLevel)
	}
	return cfg, nil
}

// ApplyViper layers values from a viper instance (config file and
// FILMROULETTE_* environment variables) over the builder. Only keys that
// are actually set override.
func (b *Builder) ApplyViper(v *viper.Viper) *Builder {
	if v.IsSet("country_index_url") {
		b.WithCountryIndexURL(v.GetString("country_index_url"))
	}
	if v.IsSet("heuristic_vocabulary") {
		b.WithHeuristicVocabulary(v.GetStringSlice("heuristic_vocabulary"))
	}
	if v.IsSet("cache.dir") {
		b.WithCacheDir(v.GetString("cache.dir"))
	}
	if v.IsSet("cache.expiration") {
		b.WithCacheExpiration(v.GetDuration("cache.expiration"))
	}
	if v.IsSet("cache.hash_algo") {
		b.WithHashAlgo(v.GetString("cache.hash_algo"))
	}
	if v.IsSet("http.user_agent") {
		b.WithUserAgent(v.GetString("http.user_agent"))
	}
	if v.IsSet("http.base_delay") {
		b.WithBaseDelay(v.GetDuration("http.base_delay"))
	}
	if v.IsSet("http.jitter") {
		b.WithJitter(v.GetDuration("http.jitter"))
	}
	if v.IsSet("http.timeout") {
		b.WithTimeout(v.GetDuration("http.timeout"))
	}
	if v.IsSet("http.max_attempt") {
		b.WithMaxAttempt(v.GetInt("http.max_attempt"))
	}
	if v.IsSet("random_seed") {
		b.WithRandomSeed(v.GetInt64("random_seed"))
	}
	if v.IsSet("log_level") {
		b.WithLogLevel(v.GetString("log_level"))
	}
	return b
}
