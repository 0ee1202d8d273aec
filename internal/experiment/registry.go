package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

type Registry struct {
	metrics map[string]func(*config.Config) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func(*config.Config) sim.Metric)}

	r.metrics["momentum_drift"] = func(*config.Config) sim.Metric { return metrics.NewMomentumDrift() }
	r.metrics["energy_drift"] = func(c *config.Config) sim.Metric {
		return metrics.NewEnergyDrift(gravity.Field{G: c.G, Softening: c.Softening})
	}
	r.metrics["collisions"] = func(*config.Config) sim.Metric { return metrics.NewCollisions() }
	r.metrics["min_separation"] = func(*config.Config) sim.Metric { return metrics.NewMinSeparation() }
	r.metrics["confinement"] = func(c *config.Config) sim.Metric { return metrics.NewConfinement(c.Bound) }

	return r
}

// Metrics builds the metrics named by cfg.Metrics. With none named, every
// metric is used; confinement only when cfg.Bound is set.
func (r *Registry) Metrics(cfg *config.Config) ([]sim.Metric, error) {
	names := cfg.Metrics
	if len(names) == 0 {
		for _, name := range r.ListMetrics() {
			if name == "confinement" && cfg.Bound <= 0 {
				continue
			}
			names = append(names, name)
		}
	}

	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		fn, ok := r.metrics[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", name)
		}
		out = append(out, fn(cfg))
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListSteppers() []string {
	return integrators.Names()
}

func (r *Registry) ListPresets() []string {
	return config.ListPresets()
}
