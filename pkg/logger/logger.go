// Package logger owns the process-wide slog setup for the asset
// inventory service and carries request-scoped loggers through
// context. Production emits JSON at info level; every other
// environment gets a text handler at debug level.
package logger

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init installs the process logger for the given environment and makes
// it the slog default.
func Init(env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	var handler slog.Handler
	if env == "production" {
		opts.Level = slog.LevelInfo
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// LoggerWrapper returns the process logger. When Init has not run yet,
// as in tests and one-off commands, a development logger is installed
// on first use.
func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		Init("development")
	}
	return defaultLogger
}
