package integrators

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// Stepper advances every moving body of a catalog by one fixed increment.
type Stepper interface {
	Step(cat *body.Catalog, dt float64)
}

// SymplecticEuler is the semi-implicit Euler scheme: kick velocities from
// forces at the current positions, then drift positions with the new velocities.
type SymplecticEuler struct {
	Field gravity.Field
}

func NewSymplecticEuler(f gravity.Field) *SymplecticEuler {
	return &SymplecticEuler{Field: f}
}

func (s *SymplecticEuler) Step(cat *body.Catalog, dt float64) {
	s.Kick(cat, dt)
	Drift(cat, dt)
}

// Kick adds dt times the gravitational acceleration to every dynamic and test
// body. Positions are only read here, so the visiting order of pairs does not
// change the result.
func (s *SymplecticEuler) Kick(cat *body.Catalog, dt float64) {
	f := s.Field

	for i := range cat.Test {
		tb := &cat.Test[i]
		for _, src := range cat.Static {
			tb.Velocity = tb.Velocity.Add(f.Pairwise(tb.Position, src.Position).Scale(dt * src.Mass))
		}
		for _, src := range cat.Dynamic {
			tb.Velocity = tb.Velocity.Add(f.Pairwise(tb.Position, src.Position).Scale(dt * src.Mass))
		}
	}

	for i := range cat.Dynamic {
		db := &cat.Dynamic[i]
		for _, src := range cat.Static {
			db.Velocity = db.Velocity.Add(f.Pairwise(db.Position, src.Position).Scale(dt * src.Mass))
		}
	}

	// each unordered dynamic pair once; the reaction is the exact negation
	for i := range cat.Dynamic {
		a := &cat.Dynamic[i]
		for j := i + 1; j < len(cat.Dynamic); j++ {
			b := &cat.Dynamic[j]
			u := f.Pairwise(a.Position, b.Position).Scale(dt)
			a.Velocity = a.Velocity.Add(u.Scale(b.Mass))
			b.Velocity = b.Velocity.Sub(u.Scale(a.Mass))
		}
	}
}

// Drift moves every dynamic and test body along its current velocity.
func Drift(cat *body.Catalog, dt float64) {
	for i := range cat.Dynamic {
		b := &cat.Dynamic[i]
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
	for i := range cat.Test {
		b := &cat.Test[i]
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}
}
