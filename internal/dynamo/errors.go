package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for harness and configuration operations. The numeric core
// itself never fails.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a loop configuration that cannot be run.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrUnknownParam indicates a tuning parameter name that is not supported.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrUnknownPlant indicates a plant name missing from the registry.
	ErrUnknownPlant = errors.New("dynamo: unknown plant")

	// ErrUnknownIntegrator indicates an integrator name missing from the registry.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownFilter indicates a filter kind missing from the registry.
	ErrUnknownFilter = errors.New("dynamo: unknown filter")

	// ErrDimensionMismatch indicates a sensor index outside the state vector.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and sensor")
)

// SimError wraps an error with the tick at which it happened.
type SimError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
