// Package errs defines the sentinel and typed errors shared by the phasecurve packages.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when anchors or phase definitions are inconsistent.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrMissingAnchor is returned when a phase references a year absent from the anchor table.
	ErrMissingAnchor = errors.New("missing anchor")
	// ErrDomain is returned when a derivation would take the logarithm of a non-positive number
	// or divide by zero.
	ErrDomain = errors.New("math domain error")
	// ErrInvalidRate is returned when a derived rate or decay constant is not finite.
	ErrInvalidRate = errors.New("invalid rate")
	// ErrInvalidSample is returned when a curve evaluates to a non-finite or non-positive value.
	ErrInvalidSample = errors.New("invalid sample value")
	// ErrUnsupportedFormat is returned for table or chart paths with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrMalformedTable is returned when a table file cannot be parsed back into samples.
	ErrMalformedTable = errors.New("malformed table")
	// ErrDisplay is returned when the chart cannot be rendered or shown.
	ErrDisplay = errors.New("display error")
)

// DerivationError reports a phase whose parameters cannot be derived.
type DerivationError struct {
	// Phase is the name of the failing phase.
	Phase string
	// Quantity names the offending quantity, e.g. "A", "K/target-1" or "r".
	Quantity string
	// Value is the offending value.
	Value float64
	// Err is the underlying sentinel error.
	Err error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("phase %q: %s = %g: %v", e.Phase, e.Quantity, e.Value, e.Err)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}

// Derivation creates a DerivationError.
func Derivation(phase, quantity string, value float64, err error) *DerivationError {
	return &DerivationError{Phase: phase, Quantity: quantity, Value: value, Err: err}
}
