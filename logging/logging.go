// Package logging builds the zap logger used by the msgkit CLI.
package logging

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Levels lists the accepted --log-level values.
var Levels = []string{"debug", "info", "warn", "error"}

// IsValidLogLevel reports whether level is one of Levels, ignoring case.
func IsValidLogLevel(level string) bool {
	return slices.Contains(Levels, strings.ToLower(level))
}

// Options configures BuildLogger.
type Options struct {
	Level string
	// JSON switches from the console encoder to JSON lines.
	JSON bool
	// Output is a zap sink URL; empty means stderr.
	Output string
}

// BuildLogger returns a logger writing to stderr with ISO8601 timestamps.
// An unknown level is reported and replaced by "warn".
func BuildLogger(opts Options) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if opts.JSON {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !opts.JSON

	level := zapcore.WarnLevel
	if opts.Level != "" {
		if !IsValidLogLevel(opts.Level) {
			fmt.Fprintf(os.Stderr, "WARNING: invalid log level %q (valid: %s), using warn\n",
				opts.Level, strings.Join(Levels, ", "))
		} else if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, err
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	out := opts.Output
	if out == "" {
		out = "stderr"
	}
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Must returns the logger or a no-op logger when it cannot be built.
func Must(opts Options) *zap.Logger {
	logger, err := BuildLogger(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: building logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}
