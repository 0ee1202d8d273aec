// Package gravity implements the softened (Plummer) gravity law.
//
// The contribution of a source at b on a receiver at a, per unit source mass, is
//
//	delta = b - a
//	r2    = |delta|^2 + S
//	g     = delta * G / (r2 * sqrt(r2))
//
// S is the softening term, in squared-distance units. It is part of the force
// law, not a numerical patch: it models bodies as smeared-out mass
// distributions, so the pull between two bodies at zero separation is bounded
// by G / S^1.5 instead of growing without limit. A Field can only be built
// with S > 0.
package gravity
