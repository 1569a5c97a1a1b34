// Package logging builds the zap loggers used by the driver and the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects how a logger is built.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string

	// Development switches to a human-readable console encoder.
	Development bool

	// OutputPaths overrides where log entries go. Defaults to stderr.
	OutputPaths []string
}

// New builds a logger.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	config := zap.NewProductionConfig()
	if opts.Development {
		config = zap.NewDevelopmentConfig()
	}

	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	if len(opts.OutputPaths) > 0 {
		config.OutputPaths = opts.OutputPaths
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}
