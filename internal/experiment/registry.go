package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/idealgas/internal/engine"
	"github.com/san-kum/idealgas/internal/metrics"
	"github.com/san-kum/idealgas/internal/sim"
)

// Registry maps metric names to constructors so runs can pick metrics by
// name from the command line.
type Registry struct {
	metrics map[string]func(engine.Bounds) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(engine.Bounds) sim.Metric),
	}

	r.metrics["energy"] = func(engine.Bounds) sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func(engine.Bounds) sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["collision_rate"] = func(engine.Bounds) sim.Metric { return metrics.NewCollisionRate() }
	r.metrics["mean_speed"] = func(engine.Bounds) sim.Metric { return metrics.NewMeanSpeed() }
	r.metrics["containment"] = func(b engine.Bounds) sim.Metric { return metrics.NewContainment(b) }

	return r
}

func (r *Registry) GetMetric(name string, b engine.Bounds) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(b), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metrics resolves names in order. An empty list means DefaultMetrics.
func (r *Registry) Metrics(names []string, b engine.Bounds) ([]sim.Metric, error) {
	if len(names) == 0 {
		return r.DefaultMetrics(b), nil
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, b)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) DefaultMetrics(b engine.Bounds) []sim.Metric {
	return metrics.Default(b)
}
