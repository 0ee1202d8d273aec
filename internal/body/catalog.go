package body

import (
	"math"
	"strconv"
)

// Ref addresses one body inside a catalog.
type Ref struct {
	Kind  Kind
	Index int
}

func (r Ref) String() string {
	return r.Kind.String() + "#" + strconv.Itoa(r.Index)
}

// View is a flattened, read-only copy of one body's attributes.
type View struct {
	Ref      Ref
	Name     string
	Mass     float64
	Position Vec2
	Velocity Vec2
	Radius   float64
	Moving   bool
}

// Label is the body's name, or its ref when it has none.
func (v View) Label() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Ref.String()
}

// Catalog stores every body of a run in three per-kind slices.
// Iteration order is static, dynamic, then test.
type Catalog struct {
	Static  []StaticBody
	Dynamic []DynamicBody
	Test    []TestBody
}

// NewCatalog validates specs and builds the fixed body set.
func NewCatalog(specs []Spec) (*Catalog, error) {
	c := &Catalog{}
	for i, s := range specs {
		if err := s.validate(i); err != nil {
			return nil, err
		}
		switch s.Kind {
		case Static:
			c.Static = append(c.Static, StaticBody{Name: s.Name, Mass: s.Mass, Position: s.Position, Radius: s.Radius})
		case Dynamic:
			c.Dynamic = append(c.Dynamic, DynamicBody{Name: s.Name, Mass: s.Mass, Position: s.Position, Velocity: s.Velocity, Radius: s.Radius})
		case Test:
			c.Test = append(c.Test, TestBody{Name: s.Name, Position: s.Position, Velocity: s.Velocity, Radius: s.Radius})
		}
	}
	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.Static) + len(c.Dynamic) + len(c.Test)
}

// Positions returns the current position of every body in catalog order.
func (c *Catalog) Positions() []Vec2 {
	out := make([]Vec2, 0, c.Len())
	for i := range c.Static {
		out = append(out, c.Static[i].Position)
	}
	for i := range c.Dynamic {
		out = append(out, c.Dynamic[i].Position)
	}
	for i := range c.Test {
		out = append(out, c.Test[i].Position)
	}
	return out
}

// Views flattens the catalog in the same order as Positions.
func (c *Catalog) Views() []View {
	out := make([]View, 0, c.Len())
	for i, b := range c.Static {
		out = append(out, View{Ref: Ref{Static, i}, Name: b.Name, Mass: b.Mass, Position: b.Position, Radius: b.Radius})
	}
	for i, b := range c.Dynamic {
		out = append(out, View{Ref: Ref{Dynamic, i}, Name: b.Name, Mass: b.Mass, Position: b.Position, Velocity: b.Velocity, Radius: b.Radius, Moving: true})
	}
	for i, b := range c.Test {
		out = append(out, View{Ref: Ref{Test, i}, Name: b.Name, Position: b.Position, Velocity: b.Velocity, Radius: b.Radius, Moving: true})
	}
	return out
}

// Specs converts the catalog back into construction specs, e.g. to record a scenario.
func (c *Catalog) Specs() []Spec {
	views := c.Views()
	out := make([]Spec, len(views))
	for i, v := range views {
		out[i] = Spec{Name: v.Name, Kind: v.Ref.Kind, Mass: v.Mass, Position: v.Position, Velocity: v.Velocity, Radius: v.Radius}
	}
	return out
}

func (c *Catalog) Clone() *Catalog {
	return &Catalog{
		Static:  append([]StaticBody(nil), c.Static...),
		Dynamic: append([]DynamicBody(nil), c.Dynamic...),
		Test:    append([]TestBody(nil), c.Test...),
	}
}

// IsFinite reports whether every moving body has finite position and velocity.
func (c *Catalog) IsFinite() bool {
	for i := range c.Dynamic {
		if !c.Dynamic[i].Position.IsFinite() || !c.Dynamic[i].Velocity.IsFinite() {
			return false
		}
	}
	for i := range c.Test {
		if !c.Test[i].Position.IsFinite() || !c.Test[i].Velocity.IsFinite() {
			return false
		}
	}
	return true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
