package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. Services and handlers receive it via
// constructor options rather than reaching for a package-level default.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
