package metrics

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/collision"
)

// Collisions counts collision events. It is fed through collision.Sink rather
// than Observe.
type Collisions struct {
	name  string
	count int
	pairs map[string]struct{}
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions", pairs: make(map[string]struct{})}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(*body.Catalog, float64) {}

func (c *Collisions) Collision(e collision.Event) {
	c.count++
	c.pairs[e.Pair()] = struct{}{}
}

func (c *Collisions) Value() float64 { return float64(c.count) }

// Pairs is the number of distinct pairs that touched at least once.
func (c *Collisions) Pairs() int { return len(c.pairs) }

func (c *Collisions) Reset() {
	c.count = 0
	c.pairs = make(map[string]struct{})
}
