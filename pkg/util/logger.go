package util

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: human-readable text in development,
// JSON for log collectors everywhere else. Every line carries the service
// name so aggregated logs stay attributable.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("service", "order-tracker")
}
