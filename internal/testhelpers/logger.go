package testhelpers

import (
	"io"
	"log/slog"

	"github.com/myrjola/reaksi/internal/logging"
)

// NewLogger creates a debug level logger writing to logSink, usually io.Discard or a buffer to assert on.
func NewLogger(logSink io.Writer) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}
