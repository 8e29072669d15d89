package metrics

import (
	"github.com/san-kum/idealgas/internal/engine"
	"github.com/san-kum/idealgas/internal/sim"
)

// Containment is the fraction of frames in which every particle is finite
// and its center lies inside the arena rectangle. Wall handling lets a
// center overshoot the reflection line by at most one step, so the check
// uses the outer rectangle rather than the margin.
type Containment struct {
	name       string
	bounds     engine.Bounds
	violations int
	samples    int
}

func NewContainment(b engine.Bounds) *Containment {
	return &Containment{
		name:   "containment",
		bounds: b,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(f sim.Frame) {
	c.samples++
	for _, p := range f.Particles {
		pos := p.Position()
		if !p.IsValid() || pos.X < 0 || pos.X > c.bounds.Width || pos.Y < 0 || pos.Y > c.bounds.Height {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
