// Package body defines the body catalog for gravitational simulations.
//
// Bodies come in three closed kinds, told apart by the attributes they carry:
//
//   - [StaticBody]: mass, position and radius. A gravity source that never moves.
//   - [DynamicBody]: mass, position, velocity and radius. Both source and receiver.
//   - [TestBody]: position, velocity and radius. A receiver only, it has no mass.
//
// A [Catalog] is built once from a list of [Spec] values and stays fixed in size
// for the whole run. Bodies are never added or removed while stepping.
//
// # Example
//
//	cat, err := body.NewCatalog([]body.Spec{
//		{Name: "sun", Kind: body.Static, Mass: 10, Radius: 6},
//		{Name: "probe", Kind: body.Test, Position: body.V(0, -100), Velocity: body.V(40, 0), Radius: 4},
//	})
package body
