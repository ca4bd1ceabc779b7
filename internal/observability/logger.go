package observability

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger. JSON output is the default; "text"
// selects a tint handler for readable terminal output from the CLI.
func NewLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	if format == "text" {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: lvl}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
