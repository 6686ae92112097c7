package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rohmanhakim/film-roulette/internal/config"
	"github.com/rohmanhakim/film-roulette/internal/fetcher"
	"github.com/rohmanhakim/film-roulette/internal/logging"
	"github.com/rohmanhakim/film-roulette/internal/pagecache"
	"github.com/rohmanhakim/film-roulette/internal/resolver"
	"github.com/rohmanhakim/film-roulette/internal/roulette"
	"github.com/rohmanhakim/film-roulette/pkg/hashutil"
	"github.com/rohmanhakim/film-roulette/pkg/limiter"
	"github.com/rohmanhakim/film-roulette/pkg/randutil"
	"github.com/rohmanhakim/film-roulette/pkg/retry"
	"github.com/rohmanhakim/film-roulette/pkg/timeutil"
)

var (
	cfgFile        string
	drawCount      int
	countryFilter  string
	genreFilter    string
	subgenreFilter string
	verbose        bool
	debug          bool
	cacheDir       string
	userAgent      string
	timeout        time.Duration
	baseDelay      time.Duration
	jitter         time.Duration
	randomSeed     int64
	maxAttempt     int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "film-roulette",
	Short: "Randomly pick films from Wikipedia's category hierarchy.",
	Long: `film-roulette walks Wikipedia's films-by-country-and-genre category
hierarchy (country -> genre -> optional subgenre -> film list), randomly
selects films, and prints a sorted, deduplicated result table.

Listing pages are cached on disk for a week to bound request volume.
Optional country/genre/subgenre filters are matched against the observed
vocabulary with exact, substring, and approximate matching; a subgenre that
no listing page links to is guessed from the category-title convention.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/film-roulette.yaml)")
	rootCmd.Flags().IntVarP(&drawCount, "count", "n", 1, "number of random films to list out")
	rootCmd.Flags().StringVar(&countryFilter, "country", "", "restrict draws to one country (fuzzy matched)")
	rootCmd.Flags().StringVar(&genreFilter, "genre", "", "restrict draws to one genre (fuzzy matched)")
	rootCmd.Flags().StringVar(&subgenreFilter, "subgenre", "", "restrict draws to one subgenre (fuzzy matched, guessed if unlinked)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "narrate each descent step")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log transport and extraction internals")
	rootCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "root directory of the page cache")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", "", "identifying client string for HTTP requests")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.Flags().DurationVar(&baseDelay, "base-delay", 0, "base delay between HTTP requests to the same host")
	rootCmd.Flags().DurationVar(&jitter, "jitter", 0, "random jitter added to base delay")
	rootCmd.Flags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.Flags().IntVar(&maxAttempt, "max-attempt", 0, "maximum attempts per HTTP fetch")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}

	logger, err := logging.New(logLevel(cfg))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	controller := buildController(cfg, logger)

	results, cerr := controller.Run(cmd.Context(), drawCount, roulette.FilterSpec{
		Country:  countryFilter,
		Genre:    genreFilter,
		Subgenre: subgenreFilter,
	})
	if cerr != nil {
		return cerr
	}

	if len(results) < drawCount {
		logger.Info("attempt budget exhausted before all draws completed",
			zap.Int("requested", drawCount),
			zap.Int("accepted", len(results)),
		)
	}

	return renderTable(cmd.OutOrStdout(), results)
}

func buildController(cfg config.Config, logger *zap.Logger) *roulette.Controller {
	backoffSeed := cfg.RandomSeed()
	if backoffSeed == 0 {
		backoffSeed = time.Now().UnixNano()
	}
	retryParam := retry.NewRetryParam(
		cfg.BaseDelay(),
		cfg.Jitter(),
		backoffSeed,
		cfg.MaxAttempt(),
		timeutil.NewBackoffParam(cfg.BackoffInitial(), cfg.BackoffMultiplier(), cfg.BackoffMaxDuration()),
	)

	htmlFetcher := fetcher.NewHtmlFetcher(cfg.Timeout(), logger)

	rateLimiter := limiter.NewConcurrentRateLimiter()
	rateLimiter.SetBaseDelay(cfg.BaseDelay())
	rateLimiter.SetJitter(cfg.Jitter())
	if cfg.RandomSeed() != 0 {
		rateLimiter.SetRandomSeed(cfg.RandomSeed())
	}

	cache := pagecache.New(
		cfg.CacheDir(),
		cfg.CacheExpiration(),
		hashutil.HashAlgo(cfg.HashAlgo()),
		cfg.UserAgent(),
		retryParam,
		&htmlFetcher,
		rateLimiter,
		logger,
	)

	return roulette.NewController(
		cfg.CountryIndexURL(),
		cache,
		resolver.NewResolver(resolver.DefaultCutoff, logger),
		resolver.NewHeuristicLinkGenerator(originOf(cfg.CountryIndexURL()), cfg.HeuristicVocabulary()),
		randutil.NewSource(cfg.RandomSeed()),
		logger,
	)
}

// logLevel resolves verbosity: flags beat the configured level.
func logLevel(cfg config.Config) logging.Level {
	switch {
	case debug:
		return logging.LevelDebug
	case verbose:
		return logging.LevelVerbose
	default:
		return logging.Level(cfg.LogLevel())
	}
}

func originOf(rawUrl string) string {
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// InitConfigWithError layers configuration: defaults, then config file and
// FILMROULETTE_* environment variables via viper, then CLI flags.
func InitConfigWithError() (config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FILMROULETTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			switch {
			case os.IsNotExist(err):
				return config.Config{}, fmt.Errorf("%w: %s", config.ErrFileDoesNotExist, cfgFile)
			case errors.As(err, &parseErr):
				return config.Config{}, fmt.Errorf("%w: %s", config.ErrConfigParsingFail, err.Error())
			default:
				return config.Config{}, fmt.Errorf("%w: %s", config.ErrReadConfigFail, err.Error())
			}
		}
	}

	builder := config.WithDefault().ApplyViper(v)

	if cacheDir != "" {
		builder = builder.WithCacheDir(cacheDir)
	}
	if userAgent != "" {
		builder = builder.WithUserAgent(userAgent)
	}
	if timeout > 0 {
		builder = builder.WithTimeout(timeout)
	}
	if baseDelay > 0 {
		builder = builder.WithBaseDelay(baseDelay)
	}
	if jitter > 0 {
		builder = builder.WithJitter(jitter)
	}
	if randomSeed != 0 {
		builder = builder.WithRandomSeed(randomSeed)
	}
	if maxAttempt > 0 {
		builder = builder.WithMaxAttempt(maxAttempt)
	}

	return builder.Build()
}

// ResetFlags restores flag state between CLI tests.
func ResetFlags() {
	cfgFile = ""
	drawCount = 1
	countryFilter = ""
	genreFilter = ""
	subgenreFilter = ""
	verbose = false
	debug = false
	cacheDir = ""
	userAgent = ""
	timeout = 0
	baseDelay = 0
	jitter = 0
	randomSeed = 0
	maxAttempt = 0
}

// Test helpers to set flag values

func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetCacheDirForTest(dir string) {
	cacheDir = dir
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetBaseDelayForTest(delay time.Duration) {
	baseDelay = delay
}

func SetJitterForTest(j time.Duration) {
	jitter = j
}

func SetRandomSeedForTest(seed int64) {
	randomSeed = seed
}

func SetMaxAttemptForTest(attempts int) {
	maxAttempt = attempts
}
