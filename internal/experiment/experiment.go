package experiment

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/arena"
	"github.com/san-kum/idealgas/internal/config"
	"github.com/san-kum/idealgas/internal/engine"
	"github.com/san-kum/idealgas/internal/particle"
	"github.com/san-kum/idealgas/internal/sim"
)

// Bounds converts the arena section of cfg.
func Bounds(cfg *config.Config) engine.Bounds {
	return engine.Bounds{
		Width:  cfg.Arena.Width,
		Height: cfg.Arena.Height,
		Margin: cfg.Arena.Margin,
	}
}

// Build validates cfg and returns an arena populated with every species in
// order. Extra options are applied after the ones derived from cfg.
func Build(cfg *config.Config, log logr.Logger, opts ...arena.Option) (*arena.Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := []arena.Option{
		arena.WithSeed(cfg.Seed),
		arena.WithParallel(cfg.Parallel),
		arena.WithLogger(log),
	}
	a, err := arena.New(Bounds(cfg), append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, s := range cfg.Species {
		template, err := particle.New(r2.Vec{}, r2.Vec{X: s.VX, Y: s.VY}, s.Mass, s.Radius, particle.Tag(s.Tag))
		if err != nil {
			return nil, fmt.Errorf("species %q: %w", s.Tag, err)
		}
		placed, err := a.Generate(template, s.Count)
		if err != nil {
			return nil, fmt.Errorf("species %q: %w", s.Tag, err)
		}
		log.V(1).Info("species generated", "tag", s.Tag, "requested", s.Count, "placed", placed)
	}
	return a, nil
}

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	log       logr.Logger
}

func New(cfg *config.Config, log logr.Logger) *Experiment {
	return &Experiment{cfg: cfg, log: log}
}

func (e *Experiment) Setup(metrics []sim.Metric) error {
	a, err := Build(e.cfg, e.log)
	if err != nil {
		return err
	}
	e.simulator = sim.New(a)
	e.simulator.SetLogger(e.log)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.DefaultConfig()
	simCfg.Frames = e.cfg.Frames

	return e.simulator.Run(ctx, simCfg)
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
