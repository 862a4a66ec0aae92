package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// AnnotatedError includes more context than a plain error that is useful for troubleshooting.
type AnnotatedError struct {
	// msg is the error message.
	msg string
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
	// wrapped is the underlying error, nil for errors created with New.
	wrapped error
}

func newAnnotatedError(msg string, wrapped error, attrs []slog.Attr) *AnnotatedError {
	var pcs [1]uintptr
	// Skip runtime.Callers, this function and the exported constructor.
	runtime.Callers(3, pcs[:]) //nolint:mnd // see comment above
	return &AnnotatedError{
		msg:     msg,
		pc:      pcs[0],
		attrs:   attrs,
		wrapped: wrapped,
	}
}

// New creates a new AnnotatedError with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	return newAnnotatedError(msg, nil, attrs)
}

// Wrap adds a message, the call site and attributes to err. Wrapping a nil error returns nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return newAnnotatedError(msg, err, attrs)
}

// NewSentinel creates a plain error without other context that can be used as sentinel error that can be detected
// with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// Error implements error interface.
func (err *AnnotatedError) Error() string {
	if err.wrapped == nil {
		return err.msg
	}
	return fmt.Sprintf("%s: %s", err.msg, err.wrapped.Error())
}

// Unwrap returns the wrapped error so that errors.Is and errors.As see through the annotation.
func (err *AnnotatedError) Unwrap() error {
	return err.wrapped
}

// LogValue formats the error for useful logging.
//
// The source points to the innermost annotated error because that is where the failure originated. Attributes from
// every annotated error in the chain are included.
func (err *AnnotatedError) LogValue() slog.Value {
	var (
		source uintptr
		attrs  []slog.Attr
	)
	var current error = err
	for current != nil {
		var annotated *AnnotatedError
		if errors.As(current, &annotated) {
			source = annotated.pc
			attrs = append(attrs, annotated.attrs...)
			current = annotated.wrapped
			continue
		}
		break
	}

	// Retrieve the source location of the error so that developers can locate it faster.
	frames := runtime.CallersFrames([]uintptr{source})
	frame, _ := frames.Next()
	sourceAttr := slog.String("source", fmt.Sprintf("%s:%d", frame.File, frame.Line))

	return slog.GroupValue(append([]slog.Attr{slog.String("msg", err.Error()), sourceAttr}, attrs...)...)
}

// SlogError returns a slog attribute under the key "error" suitable for [slog.Logger.LogAttrs].
func SlogError(err error) slog.Attr {
	if annotated, ok := err.(*AnnotatedError); ok {
		return slog.Any("error", annotated)
	}
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
