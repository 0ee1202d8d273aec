package metrics

import (
	"github.com/san-kum/gravsim/internal/body"
)

// Confinement is the fraction of observed steps in which every moving body
// stayed within radius of the origin.
type Confinement struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewConfinement(radius float64) *Confinement {
	return &Confinement{
		name:   "confinement",
		radius: radius,
	}
}

func (c *Confinement) Name() string {
	return c.name
}

func (c *Confinement) Observe(cat *body.Catalog, t float64) {
	c.samples++
	r2 := c.radius * c.radius
	for _, d := range cat.Dynamic {
		if d.Position.LenSq() > r2 {
			c.violations++
			return
		}
	}
	for _, tb := range cat.Test {
		if tb.Position.LenSq() > r2 {
			c.violations++
			return
		}
	}
}

func (c *Confinement) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Confinement) Reset() {
	c.violations = 0
	c.samples = 0
}
