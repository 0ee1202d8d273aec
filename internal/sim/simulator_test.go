package sim

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/collision"
	"github.com/san-kum/gravsim/internal/gravity"
)

func poolCatalog(t *testing.T) *body.Catalog {
	t.Helper()
	cat, err := body.NewCatalog([]body.Spec{
		{Name: "probe", Kind: body.Test, Position: body.V(0, -100), Velocity: body.V(40, 0), Radius: 4},
		{Name: "moon", Kind: body.Dynamic, Mass: 1, Position: body.V(0, 100), Velocity: body.V(-40, 0), Radius: 5},
		{Name: "sun", Kind: body.Static, Mass: 10, Radius: 6},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func TestSimulatorInvalidConfig(t *testing.T) {
	cat := poolCatalog(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.1 }},
		{"nan dt", func(c *Config) { c.Dt = math.NaN() }},
		{"inf dt", func(c *Config) { c.Dt = math.Inf(1) }},
		{"zero softening", func(c *Config) { c.Softening = 0 }},
		{"negative softening", func(c *Config) { c.Softening = -10 }},
		{"unknown stepper", func(c *Config) { c.Stepper = "rk4" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cat, cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Softening = 0
	if _, err := New(cat, cfg); !errors.Is(err, gravity.ErrInvalidSoftening) {
		t.Errorf("expected the softening cause to be kept, got %v", err)
	}
}

func TestSimulatorIntegrateExactMultiple(t *testing.T) {
	for _, n := range []int{1, 2, 59, 60, 61, 600} {
		s, err := New(poolCatalog(t), DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		target := float64(n) * DefaultDt

		steps, err := s.Integrate(target)
		if err != nil {
			t.Fatalf("integrate: %v", err)
		}
		if steps != n || s.Steps() != n {
			t.Errorf("n=%d: took %d steps", n, steps)
		}
		if s.Time() != target {
			t.Errorf("n=%d: time %v, want %v", n, s.Time(), target)
		}
	}
}

func TestSimulatorIntegrateOvershoot(t *testing.T) {
	s, err := New(poolCatalog(t), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	target := 10.5 * DefaultDt
	steps, err := s.Integrate(target)
	if err != nil {
		t.Fatal(err)
	}
	if steps != 11 {
		t.Errorf("expected 11 steps, got %d", steps)
	}
	if s.Time() < target || s.Time()-target >= DefaultDt {
		t.Errorf("time %v outside [%v, %v)", s.Time(), target, target+DefaultDt)
	}

	// already past the target: no further steps
	steps, _ = s.Integrate(target)
	if steps != 0 {
		t.Errorf("expected no steps, got %d", steps)
	}
}

func TestSimulatorStaticUntouched(t *testing.T) {
	cat := poolCatalog(t)
	want := cat.Static[0]

	s, err := New(cat, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Integrate(5); err != nil {
		t.Fatal(err)
	}

	got := s.Snapshot().Static[0]
	if got != want {
		t.Errorf("static body changed: %+v -> %+v", want, got)
	}
}

func TestSimulatorOwnsCatalog(t *testing.T) {
	cat := poolCatalog(t)
	s, err := New(cat, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	cat.Dynamic[0].Position = body.V(1e9, 1e9)
	if s.Positions()[1] != body.V(0, 100) {
		t.Error("simulator shares the caller's catalog")
	}
}

func TestSimulatorDivergenceAborts(t *testing.T) {
	cat, err := body.NewCatalog([]body.Spec{
		{Kind: body.Dynamic, Mass: 1, Velocity: body.V(math.MaxFloat64, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Dt = 10
	s, err := New(cat, cfg)
	if err != nil {
		t.Fatal(err)
	}

	err = s.Step()
	var se *SimulationError
	if !errors.As(err, &se) || !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected SimulationError wrapping ErrInvalidState, got %v", err)
	}
	if se.Step != 1 {
		t.Errorf("expected failure at step 1, got %d", se.Step)
	}

	if err := s.Step(); !errors.Is(err, ErrAborted) {
		t.Errorf("expected ErrAborted, got %v", err)
	}
	if s.Steps() != 1 {
		t.Errorf("aborted run must not advance, got %d steps", s.Steps())
	}
}

func TestSimulatorReportsCollisions(t *testing.T) {
	cat, err := body.NewCatalog([]body.Spec{
		{Name: "a", Kind: body.Test, Position: body.V(0, 0), Velocity: body.V(30, 0), Radius: 1},
		{Name: "b", Kind: body.Static, Position: body.V(5, 0), Radius: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := &collision.Recorder{}
	s, err := New(cat, DefaultConfig(), WithSink(rec))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Integrate(0.5); err != nil {
		t.Fatal(err)
	}

	if rec.Len() == 0 {
		t.Fatal("expected a collision to be reported")
	}
	if ev := rec.Events()[0]; ev.Pair() != "b/a" {
		t.Errorf("unexpected pair %q", ev.Pair())
	}
}

func TestSimulatorFirstIntervalCollisions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.G = 0

	tests := []struct {
		name  string
		specs []body.Spec
		pair  string
	}{
		{
			name: "passes through during the first step",
			specs: []body.Spec{
				{Name: "wall", Kind: body.Static, Radius: 1},
				{Name: "bullet", Kind: body.Test, Position: body.V(-3, 0), Velocity: body.V(360, 0), Radius: 1},
			},
			pair: "wall/bullet",
		},
		{
			name: "overlapping at setup and separating",
			specs: []body.Spec{
				{Name: "left", Kind: body.Dynamic, Mass: 1, Velocity: body.V(-300, 0), Radius: 1},
				{Name: "right", Kind: body.Dynamic, Mass: 1, Position: body.V(1, 0), Velocity: body.V(300, 0), Radius: 1},
			},
			pair: "left/right",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := body.NewCatalog(tt.specs)
			if err != nil {
				t.Fatal(err)
			}
			rec := &collision.Recorder{}
			s, err := New(cat, cfg, WithSink(rec))
			if err != nil {
				t.Fatal(err)
			}
			m := &countMetric{}
			s.AddMetric(m)

			if _, err := s.Integrate(1); err != nil {
				t.Fatal(err)
			}

			if rec.Len() != 1 {
				t.Fatalf("expected 1 event, got %d", rec.Len())
			}
			ev := rec.Events()[0]
			if ev.Pair() != tt.pair || ev.Step != 0 || ev.Time != 0 {
				t.Errorf("unexpected event %+v", ev)
			}
			if m.hits != 1 {
				t.Errorf("metric sink saw %d events, want 1", m.hits)
			}
		})
	}
}

func TestSimulatorNoCollisionScan(t *testing.T) {
	cat, _ := body.NewCatalog([]body.Spec{
		{Kind: body.Test, Velocity: body.V(30, 0), Radius: 1},
		{Kind: body.Static, Position: body.V(5, 0), Radius: 1},
	})
	cfg := DefaultConfig()
	cfg.DetectCollisions = false

	rec := &collision.Recorder{}
	s, _ := New(cat, cfg, WithSink(rec))
	_, _ = s.Integrate(0.5)

	if rec.Len() != 0 {
		t.Errorf("expected no events, got %d", rec.Len())
	}
}

type countMetric struct {
	observed int
	hits     int
}

func (c *countMetric) Name() string                       { return "count" }
func (c *countMetric) Observe(_ *body.Catalog, _ float64) { c.observed++ }
func (c *countMetric) Value() float64                     { return float64(c.observed) }
func (c *countMetric) Reset()                             { c.observed = 0 }
func (c *countMetric) Collision(collision.Event)          { c.hits++ }

type timeObserver struct{ times []float64 }

func (o *timeObserver) OnStep(_ *body.Catalog, t float64) { o.times = append(o.times, t) }

func TestSimulatorMetricsAndObservers(t *testing.T) {
	cat, _ := body.NewCatalog([]body.Spec{
		{Kind: body.Test, Velocity: body.V(30, 0), Radius: 1},
		{Kind: body.Static, Position: body.V(5, 0), Radius: 1},
	})
	s, err := New(cat, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	m := &countMetric{}
	o := &timeObserver{}
	s.AddMetric(m)
	s.AddObserver(o)

	if _, err := s.Integrate(10 * DefaultDt); err != nil {
		t.Fatal(err)
	}

	if got := s.Metrics()["count"]; got != 10 {
		t.Errorf("expected 10 observations, got %v", got)
	}
	if m.hits == 0 {
		t.Error("metric implementing collision.Sink received no events")
	}
	if len(o.times) != 10 || o.times[9] != 10*DefaultDt {
		t.Errorf("unexpected observer times %v", o.times)
	}
}

func TestSimulatorRunContextCanceled(t *testing.T) {
	s, _ := New(poolCatalog(t), DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps, err := s.RunContext(ctx, 100)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if steps != 0 {
		t.Errorf("expected 0 steps, got %d", steps)
	}
}

func TestSimulatorConcurrentReadBack(t *testing.T) {
	s, _ := New(poolCatalog(t), DefaultConfig())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if len(s.Positions()) != 3 {
				t.Error("short read-back")
				return
			}
		}
	}()

	if _, err := s.Integrate(5); err != nil {
		t.Fatal(err)
	}
	wg.Wait()
}

func TestSimulatorDeterministic(t *testing.T) {
	a, _ := New(poolCatalog(t), DefaultConfig())
	b, _ := New(poolCatalog(t), DefaultConfig())
	_, _ = a.Integrate(3)
	_, _ = b.Integrate(3)

	if a.Snapshot().Digest() != b.Snapshot().Digest() {
		t.Error("identical runs diverged")
	}
}

func TestEnsemble(t *testing.T) {
	e := NewEnsemble(poolCatalog(t), DefaultConfig(), 4)
	results, err := e.Run(context.Background(), 120*DefaultDt)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if !Agree(results) {
		t.Errorf("ensemble members disagree: %+v", results)
	}
	if results[0].Steps != 120 {
		t.Errorf("expected 120 steps, got %d", results[0].Steps)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 2.5, Wrapped: ErrInvalidState}
	want := "step 150 (t=2.5000): sim: invalid state (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
