package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a step size or force constant rejected at construction.
	ErrInvalidConfig = errors.New("sim: invalid configuration")

	// ErrInvalidState indicates a NaN or Inf position or velocity after a step.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrAborted is returned by every Step after a failed one.
	ErrAborted = errors.New("sim: run aborted by an earlier failure")
)

// SimulationError wraps an error with the step it happened at.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
