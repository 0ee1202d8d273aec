package collision

import (
	"github.com/san-kum/gravsim/internal/body"
)

// MinRelativeSpeedSq is the squared relative speed at or below which two bodies
// are treated as moving together and cannot newly touch within a step.
const MinRelativeSpeedSq = 1e-12

// WillCollide reports whether two circles touch within (0, dt].
//
// rel is positionB - positionA and radiusSum is rA + rB. Bodies that already
// overlap report true. Otherwise the time of closest approach
// t0 = rel·dv / |dv|^2, with dv = vA - vB, is only checked when it lies in
// (0, dt]; an approach that already passed was caught by an earlier step.
func WillCollide(dt, radiusSum float64, rel, vA, vB body.Vec2) bool {
	threshold := radiusSum * radiusSum

	if rel.LenSq() <= threshold {
		return true
	}

	dv := vA.Sub(vB)
	speedSq := dv.LenSq()
	if speedSq <= MinRelativeSpeedSq {
		return false
	}

	t0 := rel.Dot(dv) / speedSq
	if t0 <= 0 || t0 > dt {
		return false
	}

	return rel.Sub(dv.Scale(t0)).LenSq() <= threshold
}

// Collider is the per-body input of a pair test.
type Collider struct {
	Ref      body.Ref
	Name     string
	Position body.Vec2
	Velocity body.Vec2
	Radius   float64
	Moving   bool
}

func FromView(v body.View) Collider {
	return Collider{
		Ref:      v.Ref,
		Name:     v.Name,
		Position: v.Position,
		Velocity: v.Velocity,
		Radius:   v.Radius,
		Moving:   v.Moving,
	}
}

// Test checks one pair. Two static bodies never report, even when they
// overlap: their separation cannot change, so Overlaps covers them once at setup.
func Test(dt float64, a, b Collider) bool {
	if !a.Moving && !b.Moving {
		return false
	}
	return WillCollide(dt, a.Radius+b.Radius, b.Position.Sub(a.Position), a.Velocity, b.Velocity)
}
