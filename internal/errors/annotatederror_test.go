package errors

import (
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnnotatedError(t *testing.T) {
	err := New("test error", slog.String("id", "123"))
	require.Equal(t, "test error", err.Error())

	// Assert that wrapping sentinel errors work as expected.
	sentinel := NewSentinel("test error")
	require.NotErrorIs(t, err, NewSentinel("test error"))
	wrapped := Wrap(sentinel, "wrapped", slog.Int("attempt", 1))
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "wrapped: test error", wrapped.Error())

	// Ensure log values are coming through.
	var annotated *AnnotatedError
	require.True(t, As(err, &annotated))
	group := annotated.LogValue().Group()
	require.True(t, containsAttr(group, slog.String("id", "123")))

	// Assert there's a valid source
	sourceIdx := slices.IndexFunc(group, func(attr slog.Attr) bool {
		return attr.Key == "source"
	})
	require.GreaterOrEqual(t, sourceIdx, 0)
	source := group[sourceIdx]
	require.Contains(t, source.Value.String(), "annotatederror_test.go")
}

func TestWrap(t *testing.T) {
	require.NoError(t, Wrap(nil, "nothing to wrap"))

	inner := New("inner", slog.String("table", "kv"))
	outer := Wrap(inner, "outer", slog.String("key", "sim_submissions"))

	attr := SlogError(outer)
	require.Equal(t, "error", attr.Key)
	group := attr.Value.Resolve().Group()
	require.True(t, containsAttr(group, slog.String("msg", "outer: inner")))
	require.True(t, containsAttr(group, slog.String("table", "kv")))
	require.True(t, containsAttr(group, slog.String("key", "sim_submissions")))
}

func TestSlogError_plainError(t *testing.T) {
	attr := SlogError(NewSentinel("plain"))
	require.True(t, slog.String("error", "plain").Equal(attr))
}

func containsAttr(group []slog.Attr, want slog.Attr) bool {
	return slices.ContainsFunc(group, want.Equal)
}
