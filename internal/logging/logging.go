// Package logging builds the slog loggers used by the CLI and servers.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// LevelQuiet is above every standard level and suppresses all records.
const LevelQuiet = slog.Level(100)

// New creates a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, LevelQuiet)
}

// LevelFromFlags maps CLI flags to a level.
// JSON output stays machine-readable, so logs are silenced unless verbose.
func LevelFromFlags(verbose, jsonOutput bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case jsonOutput:
		return LevelQuiet
	default:
		return slog.LevelWarn
	}
}

// LevelFromString converts "debug", "info", "warn" or "error" to a level.
// Unknown strings map to info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "quiet", "off":
		return LevelQuiet
	default:
		return slog.LevelInfo
	}
}
