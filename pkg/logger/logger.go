// Package logger builds the slog.Logger shared by the daemon and the CLI.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Attribute keys shared across packages.
const (
	StoreKey     = "store"
	ComponentKey = "component"
)

// New creates a logger writing to stderr.
// Level: "debug", "info", "warn", "error" (default "info").
// Format: "json" or "text" (default "text").
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ForStore tags l with a storefront id.
func ForStore(l *slog.Logger, storeID string) *slog.Logger {
	return l.With(StoreKey, storeID)
}

// ForComponent tags l with a component name such as "engine" or "api".
func ForComponent(l *slog.Logger, name string) *slog.Logger {
	return l.With(ComponentKey, name)
}

// ParseLevel converts a level string to slog.Level, case-insensitively.
// Unrecognized values return LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
