package sim

import (
	"fmt"

	"github.com/san-kum/idealgas/internal/particle"
)

// Frame is what metrics and observers see after each tick.
type Frame struct {
	Index      uint64
	Particles  []particle.Particle
	Collisions int
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	Frames        int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Frames:        1000,
		ValidateState: true,
	}
}

// Series names recorded for every frame of a run.
const (
	SeriesKineticEnergy = "kinetic_energy"
	SeriesMeanSpeed     = "mean_speed"
	SeriesCollisions    = "collisions"
)

type Result struct {
	Frames      int
	Collisions  int
	Series      map[string][]float64
	Metrics     map[string]float64
	EnergyDrift float64
	Final       []particle.Particle
	Errors      []error
}

// SimError reports an invalid state found at a given frame.
type SimError struct {
	Frame    uint64
	Particle int
	Message  string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d (particle %d): %s", e.Frame, e.Particle, e.Message)
}
