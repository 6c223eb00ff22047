// Package logger sets up structured JSON logging.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup returns a slog.Logger that writes JSON records to w at the
// given level.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SetupDefault installs a JSON logger as the process-wide default.
// Production is expected to pass os.Stdout.
func SetupDefault(w io.Writer, level slog.Level) {
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(Setup(w, level))
}
