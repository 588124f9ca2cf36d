package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidMass indicates a non-positive or non-finite particle mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive and finite")

	// ErrInvalidState indicates a position or velocity containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")
)

// ParticleError wraps an error with the index of the offending particle.
type ParticleError struct {
	Index   int
	Wrapped error
}

func (e *ParticleError) Error() string {
	return fmt.Sprintf("particle %d: %v", e.Index, e.Wrapped)
}

func (e *ParticleError) Unwrap() error {
	return e.Wrapped
}
