package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/film-roulette/internal/config"
)

func TestWithDefaultBuilds(t *testing.T) {
	cfg, err := config.WithDefault().Build()

	require.NoError(t, err)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Category:Films_by_country_and_genre", cfg.CountryIndexURL())
	assert.Equal(t, "cache", cfg.CacheDir())
	assert.Equal(t, 7*24*time.Hour, cfg.CacheExpiration())
	assert.Equal(t, "sha256", cfg.HashAlgo())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 3, cfg.MaxAttempt())
	assert.Equal(t, time.Second, cfg.BackoffInitial())
	assert.Equal(t, 2.0, cfg.BackoffMultiplier())
	assert.Equal(t, 30*time.Second, cfg.BackoffMaxDuration())
	assert.Equal(t, "silent", cfg.LogLevel())
	assert.Equal(t, int64(0), cfg.RandomSeed())
	assert.Empty(t, cfg.HeuristicVocabulary())
}

func TestBuilderOverrides(t *testing.T) {
	cfg, err := config.WithDefault().
		WithCountryIndexURL("https://de.wikipedia.org/wiki/Kategorie:Film").
		WithCacheDir("/tmp/roulette-cache").
		WithCacheExpiration(time.Hour).
		WithHashAlgo("blake3").
		WithUserAgent("custom-agent").
		WithBaseDelay(2 * time.Second).
		WithJitter(500 * time.Millisecond).
		WithRandomSeed(42).
		WithTimeout(time.Minute).
		WithMaxAttempt(5).
		WithLogLevel("debug").
		WithHeuristicVocabulary([]string{"zombie"}).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "https://de.wikipedia.org/wiki/Kategorie:Film", cfg.CountryIndexURL())
	assert.Equal(t, "/tmp/roulette-cache", cfg.CacheDir())
	assert.Equal(t, time.Hour, cfg.CacheExpiration())
	assert.Equal(t, "blake3", cfg.HashAlgo())
	assert.Equal(t, "custom-agent", cfg.UserAgent())
	assert.Equal(t, 2*time.Second, cfg.BaseDelay())
	assert.Equal(t, 500*time.Millisecond, cfg.Jitter())
	assert.Equal(t, int64(42), cfg.RandomSeed())
	assert.Equal(t, time.Minute, cfg.Timeout())
	assert.Equal(t, 5, cfg.MaxAttempt())
	assert.Equal(t, "debug", cfg.LogLevel())
	assert.Equal(t, []string{"zombie"}, cfg.HeuristicVocabulary())
}

func TestBuildRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		builder *config.Builder
	}{
		{
			name:    "empty country index URL",
			builder: config.WithDefault().WithCountryIndexURL(""),
		},
		{
			name:    "empty cache dir",
			builder: config.WithDefault().WithCacheDir(""),
		},
		{
			name:    "non-positive cache expiration",
			builder: config.WithDefault().WithCacheExpiration(0),
		},
		{
			name:    "unknown hash algorithm",
			builder: config.WithDefault().WithHashAlgo("md5"),
		},
		{
			name:    "zero max attempt",
			builder: config.WithDefault().WithMaxAttempt(0),
		},
		{
			name:    "unknown log level",
			builder: config.WithDefault().WithLogLevel("chatty"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrInvalidConfig))
		})
	}
}

func TestApplyViperOverridesSetKeys(t *testing.T) {
	v := viper.New()
	v.Set("cache.dir", "/var/cache/roulette")
	v.Set("cache.expiration", "48h")
	v.Set("cache.hash_algo", "blake3")
	v.Set("http.user_agent", "viper-agent")
	v.Set("http.timeout", "10s")
	v.Set("http.max_attempt", 7)
	v.Set("random_seed", 99)
	v.Set("log_level", "verbose")
	v.Set("heuristic_vocabulary", []string{"kaiju", "giallo"})

	cfg, err := config.WithDefault().ApplyViper(v).Build()

	require.NoError(t, err)
	assert.Equal(t, "/var/cache/roulette", cfg.CacheDir())
	assert.Equal(t, 48*time.Hour, cfg.CacheExpiration())
	assert.Equal(t, "blake3", cfg.HashAlgo())
	assert.Equal(t, "viper-agent", cfg.UserAgent())
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 7, cfg.MaxAttempt())
	assert.Equal(t, int64(99), cfg.RandomSeed())
	assert.Equal(t, "verbose", cfg.LogLevel())
	assert.Equal(t, []string{"kaiju", "giallo"}, cfg.HeuristicVocabulary())
}

func TestApplyViperKeepsDefaultsForUnsetKeys(t *testing.T) {
	v := viper.New()
	v.Set("log_level", "debug")

	cfg, err := config.WithDefault().ApplyViper(v).Build()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel())
	assert.Equal(t, "cache", cfg.CacheDir(), "unset keys keep their defaults")
	assert.Equal(t, 3, cfg.MaxAttempt())
}
