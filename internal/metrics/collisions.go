package metrics

import (
	"github.com/san-kum/idealgas/internal/analysis"
	"github.com/san-kum/idealgas/internal/engine"
	"github.com/san-kum/idealgas/internal/sim"
)

// CollisionRate is the mean number of colliding pairs per frame.
type CollisionRate struct {
	name    string
	sum     int
	samples int
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string {
	return c.name
}

func (c *CollisionRate) Observe(f sim.Frame) {
	c.sum += f.Collisions
	c.samples++
}

func (c *CollisionRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.sum) / float64(c.samples)
}

func (c *CollisionRate) Reset() {
	c.sum = 0
	c.samples = 0
}

// MeanSpeed is the mean particle speed of the most recent frame.
type MeanSpeed struct {
	name  string
	value float64
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string        { return m.name }
func (m *MeanSpeed) Observe(f sim.Frame) { m.value = analysis.MeanSpeed(f.Particles) }
func (m *MeanSpeed) Value() float64      { return m.value }
func (m *MeanSpeed) Reset()              { m.value = 0 }

// Default returns the metric set a run records unless told otherwise.
func Default(b engine.Bounds) []sim.Metric {
	return []sim.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewCollisionRate(),
		NewMeanSpeed(),
		NewContainment(b),
	}
}
