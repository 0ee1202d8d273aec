// Package collision detects swept contact between moving circular bodies.
//
// Over one step both bodies move at constant velocity, so their relative
// position is affine in time and the squared separation is a quadratic whose
// minimum has a closed form. [WillCollide] solves it exactly instead of
// sub-stepping.
//
// Detection is a pure query. A [Detector] reports hits to a [Sink] and never
// changes body state; collision response is left to callers.
package collision
