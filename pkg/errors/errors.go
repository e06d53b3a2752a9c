// Package errors defines the error types returned by kernsmooth.
//
// All types implement Unwrap so they compose with errors.Is and errors.As, and
// the package re-exports the cockroachdb/errors helpers used throughout the
// module so callers need a single import:
//
//	if err != nil {
//		return errors.Wrap(err, "bandwidth estimation failed")
//	}
//
// Formatting an error with %+v prints the stack captured by cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors. Typed errors wrap one of these so callers can test the
// category with errors.Is.
var (
	// ErrEmptyData is returned when a sample set or query set has no points.
	ErrEmptyData = errors.New("empty data")
	// ErrDimensionMismatch is wrapped by every DimensionError.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrSingularMatrix is wrapped by every NumericalError.
	ErrSingularMatrix = errors.New("singular matrix")
	// ErrInvalidValue is wrapped by every ValueError.
	ErrInvalidValue = errors.New("invalid value")
)

const prefix = "kernsmooth"

// DimensionError reports a shape mismatch between two inputs.
// Axis is 0 for rows (dimensions) and 1 for columns (samples).
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s: dimension mismatch on axis %d: expected %d, got %d",
		prefix, e.Op, e.Axis, e.Expected, e.Got)
}

// Unwrap returns ErrDimensionMismatch.
func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// ValueError reports an invalid argument value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// Unwrap returns ErrInvalidValue.
func (e *ValueError) Unwrap() error { return ErrInvalidValue }

// ModelError wraps a lower level failure with the operation that hit it.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError.
func NewModelError(op, message string, err error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Message, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ModelError) Unwrap() error { return e.Err }

// NumericalError reports a singular or non-invertible matrix met during an
// inversion, a square root or a linear solve. Index is the query point being
// evaluated, or -1 when the failure is not tied to a point.
type NumericalError struct {
	Op      string
	Message string
	Index   int
	Err     error
}

// NewNumericalError creates a NumericalError not tied to a query point.
func NewNumericalError(op, message string, cause error) *NumericalError {
	return &NumericalError{Op: op, Message: message, Index: -1, Err: cause}
}

// NewPointNumericalError creates a NumericalError for query point index.
func NewPointNumericalError(op string, index int, cause error) *NumericalError {
	return &NumericalError{Op: op, Message: "singular normal matrix", Index: index, Err: cause}
}

func (e *NumericalError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
	if e.Index >= 0 {
		msg += fmt.Sprintf(" at point %d", e.Index)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap exposes both ErrSingularMatrix and the underlying cause.
func (e *NumericalError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSingularMatrix}
	}
	return []error{ErrSingularMatrix, e.Err}
}

// Recover converts a panic raised below op into an error stored in *err.
// It must be deferred directly:
//
//	func (s *SpatialAverage) Evaluate(points mat.Matrix) (_ []float64, err error) {
//		defer errors.Recover(&err, "SpatialAverage.Evaluate")
//		...
//	}
func Recover(err *error, op string) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok {
		*err = errors.Wrapf(e, "%s: %s: recovered panic", prefix, op)
		return
	}
	*err = errors.Newf("%s: %s: recovered panic: %v", prefix, op, r)
}

// Re-exported helpers from cockroachdb/errors.

// New creates an error with a stack trace.
func New(msg string) error { return errors.New(msg) }

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error { return errors.Newf(format, args...) }

// Wrap annotates err with msg. It returns nil when err is nil.
func Wrap(err error, msg string) error { return errors.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. It returns nil when err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Unwrap returns the next error in err's chain.
func Unwrap(err error) error { return errors.Unwrap(err) }
