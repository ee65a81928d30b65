// Package logging builds the process logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// EnvProduction switches the handler to JSON.
const EnvProduction = "production"

// New returns a logger writing to out at the named level: text for
// interactive use, JSON in production. It also becomes the slog default.
func New(env, level string, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if env == EnvProduction {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to a slog.Level. Unknown names are Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
