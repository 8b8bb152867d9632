package logger

import (
	"log/slog"
	"os"
)

// New returns a slog logger writing to stdout. The format is "json" for
// production aggregation or anything else for the text handler.
func New(format string) *slog.Logger {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}
