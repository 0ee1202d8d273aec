package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/collision"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrators"
	"go.uber.org/zap"
)

type Simulator struct {
	mu sync.Mutex

	cfg      Config
	cat      *body.Catalog
	stepper  integrators.Stepper
	detector *collision.Detector
	sinks    collision.MultiSink
	log      *zap.Logger

	steps int
	time  float64
	err   error

	metrics   []Metric
	observers []Observer
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// WithSink adds a receiver for collision events.
func WithSink(sink collision.Sink) Option {
	return func(s *Simulator) { s.sinks = append(s.sinks, sink) }
}

// New validates cfg and takes a private copy of cat. Overlapping bodies at
// setup are logged as warnings; static pairs are never checked again. Moving
// pairs are reported to the sinks by the first Step.
func New(cat *body.Catalog, cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	field, err := gravity.New(cfg.G, cfg.Softening)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	stepper, err := integrators.New(cfg.Stepper, field, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	s := &Simulator{
		cfg:     cfg,
		cat:     cat.Clone(),
		stepper: stepper,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.detector = collision.NewDetector(&s.sinks)

	for _, ev := range collision.Overlaps(s.cat) {
		s.log.Warn("bodies overlap at setup",
			zap.String("pair", ev.Pair()),
			zap.Float64("radius_a", ev.RadiusA),
			zap.Float64("radius_b", ev.RadiusB),
		)
	}
	s.log.Debug("simulator ready",
		zap.Int("static", len(s.cat.Static)),
		zap.Int("dynamic", len(s.cat.Dynamic)),
		zap.Int("test", len(s.cat.Test)),
		zap.Float64("dt", cfg.Dt),
		zap.String("stepper", cfg.Stepper),
	)
	return s, nil
}

// AddMetric registers m. Metrics that also implement collision.Sink receive
// collision events.
func (s *Simulator) AddMetric(m Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, m)
	if sink, ok := m.(collision.Sink); ok {
		s.sinks = append(s.sinks, sink)
	}
}

func (s *Simulator) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Step advances the run by one fixed increment. Once a step fails every later
// call returns an error wrapping ErrAborted.
func (s *Simulator) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked()
}

func (s *Simulator) stepLocked() error {
	if s.err != nil {
		return fmt.Errorf("%w: %w", ErrAborted, s.err)
	}

	dt := s.cfg.Dt
	if s.steps == 0 && s.cfg.DetectCollisions {
		// The first interval is queried from the initial state.
		s.detector.Scan(s.cat, dt, 0, 0)
	}

	s.stepper.Step(s.cat, dt)
	s.steps++
	s.time = float64(s.steps) * dt

	if s.cfg.ValidateState && !s.cat.IsFinite() {
		s.err = &SimulationError{Step: s.steps, Time: s.time, Wrapped: ErrInvalidState}
		s.log.Error("simulation diverged", zap.Int("step", s.steps), zap.Float64("time", s.time))
		return s.err
	}

	if s.cfg.DetectCollisions {
		s.detector.Scan(s.cat, dt, s.time, s.steps)
	}

	for _, m := range s.metrics {
		m.Observe(s.cat, s.time)
	}
	for _, o := range s.observers {
		o.OnStep(s.cat, s.time)
	}
	return nil
}

// Integrate steps while the clock is strictly below target and returns the
// number of steps taken.
func (s *Simulator) Integrate(target float64) (int, error) {
	return s.RunContext(context.Background(), target)
}

// RunContext is Integrate with cancellation checked between steps. A step
// that has started always completes.
func (s *Simulator) RunContext(ctx context.Context, target float64) (int, error) {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}

		s.mu.Lock()
		if !(s.time < target) {
			s.mu.Unlock()
			return n, nil
		}
		err := s.stepLocked()
		s.mu.Unlock()

		if err != nil {
			return n, err
		}
		n++
	}
}

// Positions returns the current position of every body in catalog order.
func (s *Simulator) Positions() []body.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Positions()
}

// Snapshot returns a deep copy of the catalog.
func (s *Simulator) Snapshot() *body.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat.Clone()
}

func (s *Simulator) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.time
}

func (s *Simulator) Steps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}

// Err returns the failure that aborted the run, if any.
func (s *Simulator) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Simulator) Config() Config {
	return s.cfg
}

// Metrics returns the current value of every registered metric by name.
func (s *Simulator) Metrics() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
