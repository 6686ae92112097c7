// Package logging provides zap logger helpers.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the verbosity of a run. It replaces mutable global verbose/debug
// flags: the CLI builds one logger and threads it into each component at
// construction.
type Level string

const (
	// LevelSilent suppresses all diagnostic output. Errors still reach the
	// user through the CLI's error stream.
	LevelSilent Level = "silent"
	// LevelVerbose narrates each descent step (cache hits, selections).
	LevelVerbose Level = "verbose"
	// LevelDebug additionally logs transport and extraction internals.
	LevelDebug Level = "debug"
)

// New builds a zap.Logger for the given verbosity level.
func New(level Level) (*zap.Logger, error) {
	switch level {
	case LevelSilent:
		return zap.NewNop(), nil
	case LevelVerbose, LevelDebug:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if level == LevelVerbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
		return logger, nil
	default:
		return nil, fmt.Errorf("unknown log level: %q", level)
	}
}
