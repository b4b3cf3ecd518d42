// Package logging configures the process logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates the process slog.Logger. The level is driven by the
// EVMKIT_LOG_LEVEL environment variable; anything unrecognized keeps the
// info default.
func NewLogger() *slog.Logger {
	level := slog.LevelInfo

	switch strings.ToLower(os.Getenv("EVMKIT_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop timestamps for cleaner CLI output.
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
