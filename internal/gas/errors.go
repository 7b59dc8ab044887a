package gas

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidTimestep indicates a non-positive dt was supplied.
	ErrInvalidTimestep = errors.New("gas: timestep must be positive")

	// ErrInvalidState indicates a particle acquired a NaN/Inf position or velocity.
	ErrInvalidState = errors.New("gas: invalid particle state (NaN or Inf detected)")

	// ErrNegativeTarget indicates a negative population target was requested.
	ErrNegativeTarget = errors.New("gas: population target must be non-negative")

	// ErrContainment indicates a particle was found outside the container
	// when the model asserts containment. This is a defect, not a
	// recoverable condition.
	ErrContainment = errors.New("gas: particle escaped closed container")
)

// SimError wraps a defect with the step at which it was detected.
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
