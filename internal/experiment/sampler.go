package experiment

import (
	"sync"

	"github.com/san-kum/gravsim/internal/body"
)

// Sampler is a sim.Observer that keeps the positions of every body on every
// n-th call.
type Sampler struct {
	mu     sync.Mutex
	every  int
	n      int
	energy func(*body.Catalog) float64

	times    []float64
	states   [][]body.Vec2
	energies []float64
}

// NewSampler samples every n-th call; n < 1 samples every call. energy may be
// nil.
func NewSampler(every int, energy func(*body.Catalog) float64) *Sampler {
	if every < 1 {
		every = 1
	}
	return &Sampler{every: every, energy: energy}
}

func (s *Sampler) OnStep(cat *body.Catalog, t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.n++
	if (s.n-1)%s.every != 0 {
		return
	}
	s.times = append(s.times, t)
	s.states = append(s.states, cat.Positions())
	if s.energy != nil {
		s.energies = append(s.energies, s.energy(cat))
	}
}

func (s *Sampler) Samples() ([]float64, [][]body.Vec2, []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.times...),
		append([][]body.Vec2(nil), s.states...),
		append([]float64(nil), s.energies...)
}

func (s *Sampler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.times)
}
