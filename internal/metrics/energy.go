package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Energy returns kinetic plus softened potential energy of the massive bodies.
func Energy(f gravity.Field, cat *body.Catalog) float64 {
	ke := 0.0
	for _, d := range cat.Dynamic {
		ke += 0.5 * d.Mass * d.Velocity.LenSq()
	}
	return ke + f.PotentialEnergy(cat)
}

// EnergyDrift tracks the largest relative deviation of total energy from its
// first observed value.
type EnergyDrift struct {
	name          string
	field         gravity.Field
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(f gravity.Field) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		field: f,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(cat *body.Catalog, t float64) {
	energy := Energy(e.field, cat)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current is the energy at the last observation.
func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
