// Package logging configures the diagnostic side channel. All pipeline
// diagnostics go through slog to stderr so that primary data output
// (CSV on stdout, chart files) stays clean for piping.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init configures the global slog default. If w is nil, os.Stderr is used.
// Format must be "text" or "json".
func Init(level slog.Level, format string, w ...io.Writer) {
	var writer io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		writer = w[0]
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// New returns a logger scoped to one pipeline stage via a "stage" attribute.
func New(stage string) *slog.Logger {
	return slog.Default().With(slog.String("stage", stage))
}
