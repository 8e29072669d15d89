package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/go-logr/logr"

	"github.com/san-kum/idealgas/internal/analysis"
	"github.com/san-kum/idealgas/internal/arena"
	"github.com/san-kum/idealgas/internal/particle"
)

// Simulator drives an arena for a fixed number of frames and records
// per-frame series, metric values and the final state.
type Simulator struct {
	arena     *arena.Arena
	metrics   []Metric
	observers []Observer
	log       logr.Logger
}

func New(a *arena.Arena) *Simulator {
	return &Simulator{
		arena:     a,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       logr.Discard(),
	}
}

func (s *Simulator) AddMetric(m Metric)      { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)  { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l logr.Logger) { s.log = l }
func (s *Simulator) Arena() *arena.Arena     { return s.arena }

// Run advances cfg.Frames frames. The context is checked between frames;
// a frame in progress always completes.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Series: map[string][]float64{
			SeriesKineticEnergy: make([]float64, 0, cfg.Frames),
			SeriesMeanSpeed:     make([]float64, 0, cfg.Frames),
			SeriesCollisions:    make([]float64, 0, cfg.Frames),
		},
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy := s.arena.KineticEnergy()
	s.log.V(1).Info("run started", "frames", cfg.Frames, "particles", s.arena.Len(), "energy", initialEnergy)

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, initialEnergy)
			return result, ctx.Err()
		default:
		}

		collisions := s.arena.AdvanceOneFrame()
		f := Frame{
			Index:      s.arena.Frame(),
			Particles:  s.arena.Particles(),
			Collisions: collisions,
		}

		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}

		result.Frames++
		result.Collisions += collisions
		result.Series[SeriesKineticEnergy] = append(result.Series[SeriesKineticEnergy], kineticEnergy(f.Particles))
		result.Series[SeriesMeanSpeed] = append(result.Series[SeriesMeanSpeed], analysis.MeanSpeed(f.Particles))
		result.Series[SeriesCollisions] = append(result.Series[SeriesCollisions], float64(collisions))

		if cfg.ValidateState {
			if idx := firstInvalid(f.Particles); idx >= 0 {
				err := SimError{Frame: f.Index, Particle: idx, Message: "invalid state (NaN/Inf)"}
				s.log.Error(err, "stopping run")
				result.Errors = append(result.Errors, err)
				break
			}
		}
	}

	s.finish(result, initialEnergy)
	s.log.V(1).Info("run finished", "frames", result.Frames, "collisions", result.Collisions, "drift", result.EnergyDrift)
	return result, nil
}

// RunWithCallback advances frames until cb returns false, the frame budget
// runs out or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, frames int, cb func(Frame) bool) error {
	if frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", frames)
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		collisions := s.arena.AdvanceOneFrame()
		f := Frame{Index: s.arena.Frame(), Particles: s.arena.Particles(), Collisions: collisions}
		for _, obs := range s.observers {
			obs.OnFrame(f)
		}
		if !cb(f) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if s.arena == nil {
		return fmt.Errorf("simulator has no arena")
	}
	return nil
}

func (s *Simulator) finish(result *Result, initialEnergy float64) {
	finalEnergy := s.arena.KineticEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.arena.Particles()
}

func kineticEnergy(ps []particle.Particle) float64 {
	e := 0.0
	for _, p := range ps {
		e += p.KineticEnergy()
	}
	return e
}

func firstInvalid(ps []particle.Particle) int {
	for i, p := range ps {
		if !p.IsValid() {
			return i
		}
	}
	return -1
}
