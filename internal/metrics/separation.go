package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
)

// MinSeparation is the smallest surface gap seen between any two bodies at
// least one of which moves. Negative values mean the circles overlapped.
type MinSeparation struct {
	name string
	min  float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{name: "min_separation", min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return m.name }

func (m *MinSeparation) Observe(cat *body.Catalog, t float64) {
	views := cat.Views()
	for i := 0; i < len(views); i++ {
		for j := i + 1; j < len(views); j++ {
			a, b := views[i], views[j]
			if !a.Moving && !b.Moving {
				continue
			}
			gap := b.Position.Sub(a.Position).Len() - a.Radius - b.Radius
			if gap < m.min {
				m.min = gap
			}
		}
	}
}

func (m *MinSeparation) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinSeparation) Reset() { m.min = math.Inf(1) }
