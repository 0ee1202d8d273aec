package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// DefaultDt is the fixed step of the reference scenario.
const DefaultDt = 1.0 / 60.0

type Config struct {
	Dt               float64
	G                float64
	Softening        float64
	Stepper          string
	Workers          int
	ValidateState    bool
	DetectCollisions bool
}

func DefaultConfig() Config {
	return Config{
		Dt:               DefaultDt,
		G:                gravity.DefaultG,
		Softening:        gravity.DefaultSoftening,
		Stepper:          "symplectic",
		ValidateState:    true,
		DetectCollisions: true,
	}
}

func (c Config) validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(cat *body.Catalog, t float64)
	Value() float64
	Reset()
}

// Observer sees the catalog after every step. The catalog must not be modified
// or retained.
type Observer interface {
	OnStep(cat *body.Catalog, t float64)
}
