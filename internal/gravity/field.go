package gravity

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/gravsim/internal/body"
)

const (
	// DefaultG is the gravitational constant of the reference scenario.
	DefaultG = 100_000.0

	// DefaultSoftening is added to squared separations, in squared-distance units.
	DefaultSoftening = 10.0
)

var (
	ErrInvalidSoftening = errors.New("gravity: softening must be positive and finite")
	ErrInvalidConstant  = errors.New("gravity: gravitational constant must be finite")
)

type Field struct {
	G         float64
	Softening float64
}

func New(g, softening float64) (Field, error) {
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return Field{}, fmt.Errorf("%w, got %g", ErrInvalidConstant, g)
	}
	if !(softening > 0) || math.IsInf(softening, 0) {
		return Field{}, fmt.Errorf("%w, got %g", ErrInvalidSoftening, softening)
	}
	return Field{G: g, Softening: softening}, nil
}

func Default() Field {
	return Field{G: DefaultG, Softening: DefaultSoftening}
}

// Pairwise returns the pull on a body at a from a unit mass at b, directed from a toward b.
// Multiply by the source mass to get the acceleration.
func (f Field) Pairwise(a, b body.Vec2) body.Vec2 {
	delta := b.Sub(a)
	r2 := delta.LenSq() + f.Softening
	return delta.Scale(f.G / (r2 * math.Sqrt(r2)))
}

// Scale is the factor Pairwise applies to the separation vector, as a function of
// true separation: G / (sep^2 + S)^1.5.
func (f Field) Scale(separation float64) float64 {
	r2 := separation*separation + f.Softening
	return f.G / (r2 * math.Sqrt(r2))
}

// Accelerations returns the gravitational acceleration on every body in catalog
// order. Static bodies always get zero.
func (f Field) Accelerations(cat *body.Catalog) []body.Vec2 {
	out := make([]body.Vec2, cat.Len())
	nStatic := len(cat.Static)
	nDyn := len(cat.Dynamic)

	for i := range cat.Dynamic {
		acc := body.Vec2{}
		p := cat.Dynamic[i].Position
		for _, s := range cat.Static {
			acc = acc.Add(f.Pairwise(p, s.Position).Scale(s.Mass))
		}
		for j := range cat.Dynamic {
			if i == j {
				continue
			}
			acc = acc.Add(f.Pairwise(p, cat.Dynamic[j].Position).Scale(cat.Dynamic[j].Mass))
		}
		out[nStatic+i] = acc
	}

	for i := range cat.Test {
		acc := body.Vec2{}
		p := cat.Test[i].Position
		for _, s := range cat.Static {
			acc = acc.Add(f.Pairwise(p, s.Position).Scale(s.Mass))
		}
		for _, d := range cat.Dynamic {
			acc = acc.Add(f.Pairwise(p, d.Position).Scale(d.Mass))
		}
		out[nStatic+nDyn+i] = acc
	}
	return out
}

// PotentialEnergy sums -G*m_i*m_j/sqrt(r^2+S) over every massive pair that
// involves at least one dynamic body. Static/static pairs are constant and left out.
func (f Field) PotentialEnergy(cat *body.Catalog) float64 {
	pe := 0.0
	pair := func(a, b body.Vec2, ma, mb float64) {
		r := math.Sqrt(b.Sub(a).LenSq() + f.Softening)
		pe -= f.G * ma * mb / r
	}

	for i := range cat.Dynamic {
		d := cat.Dynamic[i]
		for _, s := range cat.Static {
			pair(d.Position, s.Position, d.Mass, s.Mass)
		}
		for j := i + 1; j < len(cat.Dynamic); j++ {
			pair(d.Position, cat.Dynamic[j].Position, d.Mass, cat.Dynamic[j].Mass)
		}
	}
	return pe
}
