package integrators

import (
	"runtime"
	"sync"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/gravity"
)

// DefaultMinBodies is the receiver count below which Parallel runs the serial kick.
const DefaultMinBodies = 64

// Parallel splits the kick across workers by receiver. Each worker reads only
// start-of-step positions and writes only its own slots of a delta buffer;
// the deltas are added to the velocities after every worker is done, and only
// then does the drift run.
//
// Pairs are evaluated from both sides, so dynamic/dynamic reactions are equal
// and opposite only up to rounding. Use SymplecticEuler when bit-exact
// reproducibility against the serial path matters.
type Parallel struct {
	Field     gravity.Field
	Workers   int
	MinBodies int

	serial SymplecticEuler
	deltas []body.Vec2
}

func NewParallel(f gravity.Field, workers int) *Parallel {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Parallel{
		Field:     f,
		Workers:   workers,
		MinBodies: DefaultMinBodies,
		serial:    SymplecticEuler{Field: f},
	}
}

func (p *Parallel) Step(cat *body.Catalog, dt float64) {
	p.Kick(cat, dt)
	Drift(cat, dt)
}

func (p *Parallel) Kick(cat *body.Catalog, dt float64) {
	nDyn := len(cat.Dynamic)
	n := nDyn + len(cat.Test)
	if n < p.MinBodies || p.Workers <= 1 {
		p.serial.Field = p.Field
		p.serial.Kick(cat, dt)
		return
	}

	if cap(p.deltas) < n {
		p.deltas = make([]body.Vec2, n)
	}
	deltas := p.deltas[:n]

	workers := p.Workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := start; i < end; i++ {
				deltas[i] = p.receiverDelta(cat, i, nDyn, dt)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < nDyn; i++ {
		cat.Dynamic[i].Velocity = cat.Dynamic[i].Velocity.Add(deltas[i])
	}
	for i := range cat.Test {
		cat.Test[i].Velocity = cat.Test[i].Velocity.Add(deltas[nDyn+i])
	}
}

// receiverDelta sums the velocity change of receiver i, where i < nDyn indexes
// dynamic bodies and the rest index test bodies.
func (p *Parallel) receiverDelta(cat *body.Catalog, i, nDyn int, dt float64) body.Vec2 {
	f := p.Field
	var pos body.Vec2
	if i < nDyn {
		pos = cat.Dynamic[i].Position
	} else {
		pos = cat.Test[i-nDyn].Position
	}

	acc := body.Vec2{}
	for _, src := range cat.Static {
		acc = acc.Add(f.Pairwise(pos, src.Position).Scale(src.Mass))
	}
	for j := range cat.Dynamic {
		if j == i {
			continue
		}
		acc = acc.Add(f.Pairwise(pos, cat.Dynamic[j].Position).Scale(cat.Dynamic[j].Mass))
	}
	return acc.Scale(dt)
}
