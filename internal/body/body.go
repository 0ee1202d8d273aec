package body

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Static Kind = iota
	Dynamic
	Test
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a kind name (case-insensitive) to its Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static":
		return Static, nil
	case "dynamic":
		return Dynamic, nil
	case "test":
		return Test, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// StaticBody is a gravity source fixed in place for the whole run.
type StaticBody struct {
	Name     string
	Mass     float64
	Position Vec2
	Radius   float64
}

// DynamicBody attracts and is attracted by every other massive body.
type DynamicBody struct {
	Name     string
	Mass     float64
	Position Vec2
	Velocity Vec2
	Radius   float64
}

// TestBody feels gravity but contributes none.
type TestBody struct {
	Name     string
	Position Vec2
	Velocity Vec2
	Radius   float64
}

// Spec is the literal initial condition for one body, supplied once at setup.
type Spec struct {
	Name     string  `json:"name" yaml:"name"`
	Kind     Kind    `json:"kind" yaml:"kind"`
	Mass     float64 `json:"mass,omitempty" yaml:"mass,omitempty"`
	Position Vec2    `json:"position" yaml:"position"`
	Velocity Vec2    `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Radius   float64 `json:"radius" yaml:"radius"`
}

func (s Spec) validate(idx int) error {
	fail := func(format string, args ...any) error {
		return &SpecError{Index: idx, Name: s.Name, Reason: fmt.Sprintf(format, args...)}
	}

	if !isFinite(s.Mass) || !isFinite(s.Radius) || !s.Position.IsFinite() || !s.Velocity.IsFinite() {
		return fail("non-finite attribute")
	}
	if s.Mass < 0 {
		return fail("mass must be non-negative, got %g", s.Mass)
	}
	if s.Radius < 0 {
		return fail("radius must be non-negative, got %g", s.Radius)
	}

	switch s.Kind {
	case Static:
		if !s.Velocity.IsZero() {
			return fail("static body cannot have a velocity")
		}
	case Dynamic:
	case Test:
		if s.Mass != 0 {
			return fail("test body cannot have mass")
		}
	default:
		return fail("unknown kind %v", s.Kind)
	}
	return nil
}
