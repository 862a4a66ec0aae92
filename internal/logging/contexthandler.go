package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/myrjola/reaksi/internal/errors"
)

type contextKey string

const slogAttrs contextKey = "slogAttrs"

type ContextHandler struct {
	slog.Handler
}

// NewContextHandler constructs a ContextHandler that adds new [slog.Attr] to the log messages from [context.Context]
// to the underlying [slog.Handler].
func NewContextHandler(h slog.Handler) ContextHandler {
	return ContextHandler{Handler: h}
}

// Handle enriches the log record with [slog.Attr] stored in context with [WithAttrs].
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogAttrs).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	if err := h.Handler.Handle(ctx, r); err != nil {
		return errors.Wrap(err, "handle log record")
	}
	return nil
}

// WithAttrs keeps the context enrichment when the logger is derived with [slog.Logger.With].
func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context enrichment when the logger is derived with [slog.Logger.WithGroup].
func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// WithAttrs adds [...slog.Attr] to the [context.Context] that enriches the log messages handled by [ContextHandler].
func WithAttrs(ctx context.Context, attr ...slog.Attr) context.Context {
	if v, ok := ctx.Value(slogAttrs).([]slog.Attr); ok {
		// Copy so that sibling contexts never share the backing array.
		merged := make([]slog.Attr, 0, len(v)+len(attr))
		merged = append(merged, v...)
		merged = append(merged, attr...)
		return context.WithValue(ctx, slogAttrs, merged)
	}
	return context.WithValue(ctx, slogAttrs, attr)
}

// ParseLevel maps debug, info, warn and error to [slog.Level]. Unknown values fall back to info.
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

// NewLogger creates the text logger used by the binaries.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       level,
		ReplaceAttr: nil,
	})))
}
