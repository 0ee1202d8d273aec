package body

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBody indicates a body spec that breaks a catalog invariant.
	ErrInvalidBody = errors.New("body: invalid body spec")

	// ErrUnknownKind indicates a kind name that is not static, dynamic or test.
	ErrUnknownKind = errors.New("body: unknown body kind")
)

// SpecError wraps a validation failure with the offending spec's position.
type SpecError struct {
	Index  int
	Name   string
	Reason string
}

func (e *SpecError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("body %d (%s): %s", e.Index, e.Name, e.Reason)
	}
	return fmt.Sprintf("body %d: %s", e.Index, e.Reason)
}

func (e *SpecError) Unwrap() error {
	return ErrInvalidBody
}
