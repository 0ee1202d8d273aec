package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/collision"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"go.uber.org/zap"
)

var ErrNotSetup = errors.New("experiment: not set up")

// Result is what a finished (or interrupted) run leaves behind.
type Result struct {
	Scenario   string
	Labels     []string
	Times      []float64
	States     [][]body.Vec2
	Energies   []float64
	Metrics    map[string]float64
	Collisions []collision.Event
	Steps      int
	Time       float64
	Digest     uint64
}

type Experiment struct {
	cfg       *config.Config
	log       *zap.Logger
	simulator *sim.Simulator
	recorder  *collision.Recorder
	sampler   *Sampler
	labels    []string
}

func New(cfg *config.Config, log *zap.Logger) *Experiment {
	if log == nil {
		log = zap.NewNop()
	}
	return &Experiment{cfg: cfg, log: log}
}

// Setup builds the simulator and attaches metrics, the collision log and the
// position sampler. The initial state is recorded as the first sample.
func (e *Experiment) Setup(ms []sim.Metric) error {
	field, err := gravity.New(e.cfg.G, e.cfg.Softening)
	if err != nil {
		return fmt.Errorf("%w: %w", sim.ErrInvalidConfig, err)
	}

	e.recorder = &collision.Recorder{}
	s, err := e.cfg.NewSimulator(
		sim.WithLogger(e.log),
		sim.WithSink(e.recorder),
		sim.WithSink(collision.NewLogSink(e.log)),
	)
	if err != nil {
		return err
	}
	for _, m := range ms {
		s.AddMetric(m)
	}

	snap := s.Snapshot()
	e.labels = e.labels[:0]
	for _, v := range snap.Views() {
		e.labels = append(e.labels, v.Label())
	}

	e.sampler = NewSampler(e.cfg.SampleEvery, func(cat *body.Catalog) float64 {
		return metrics.Energy(field, cat)
	})
	e.sampler.OnStep(snap, 0)
	s.AddObserver(e.sampler)

	e.simulator = s
	return nil
}

// Run steps until the scenario duration. On error the partial result is
// returned along with it.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}

	steps, err := e.simulator.RunContext(ctx, e.cfg.Duration)
	e.log.Info("run finished",
		zap.String("scenario", e.cfg.Name),
		zap.Int("steps", steps),
		zap.Float64("time", e.simulator.Time()),
		zap.Int("collisions", e.recorder.Len()),
		zap.Error(err),
	)
	return e.result(), err
}

// Simulator exposes the underlying driver for extra observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) result() *Result {
	times, states, energies := e.sampler.Samples()
	return &Result{
		Scenario:   e.cfg.Name,
		Labels:     append([]string(nil), e.labels...),
		Times:      times,
		States:     states,
		Energies:   energies,
		Metrics:    e.simulator.Metrics(),
		Collisions: e.recorder.Events(),
		Steps:      e.simulator.Steps(),
		Time:       e.simulator.Time(),
		Digest:     e.simulator.Snapshot().Digest(),
	}
}
