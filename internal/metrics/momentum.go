package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
)

// Momentum returns the total linear momentum of the dynamic bodies.
// Static bodies never move and test bodies carry no mass.
func Momentum(cat *body.Catalog) body.Vec2 {
	p := body.Vec2{}
	for _, d := range cat.Dynamic {
		p = p.Add(d.Velocity.Scale(d.Mass))
	}
	return p
}

// MomentumDrift tracks the largest deviation of total momentum from its first
// observed value. Without static sources it should stay at rounding level.
type MomentumDrift struct {
	name     string
	initial  body.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(cat *body.Catalog, t float64) {
	p := Momentum(cat)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = body.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}
