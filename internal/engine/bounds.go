package engine

import (
	"fmt"
	"math"

	"github.com/san-kum/idealgas/internal/particle"
)

// Bounds is the rectangular arena. Particle centers live in
// [Margin+r, Width-Margin-r] x [Margin+r, Height-Margin-r].
type Bounds struct {
	Width  float64
	Height float64
	Margin float64
}

// Square returns bounds for a length x length arena.
func Square(length, margin float64) Bounds {
	return Bounds{Width: length, Height: length, Margin: margin}
}

// Validate checks that a particle of the given radius has a non-empty
// range of valid center positions on both axes.
func (b Bounds) Validate(radius float64) error {
	for _, v := range []float64{b.Width, b.Height, b.Margin, radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: width=%v height=%v margin=%v radius=%v", ErrDegenerateBounds, b.Width, b.Height, b.Margin, radius)
		}
	}
	min := 2*b.Margin + 2*radius
	if b.Width <= min || b.Height <= min {
		return fmt.Errorf("%w: %vx%v arena needs more than %v for margin %v and radius %v",
			ErrDegenerateBounds, b.Width, b.Height, min, b.Margin, radius)
	}
	return nil
}

// Range returns the valid interval for a particle center on each axis.
func (b Bounds) Range(radius float64) (lowX, highX, lowY, highY float64) {
	lowX = b.Margin + radius
	lowY = b.Margin + radius
	highX = b.Width - b.Margin - radius
	highY = b.Height - b.Margin - radius
	return
}

// Reflect is WallCollision for a rectangular arena.
func (b Bounds) Reflect(p *particle.Particle) {
	lowX, highX, lowY, highY := b.Range(p.Radius())
	pos, vel := p.Position(), p.Velocity()

	if pos.X <= lowX || pos.X >= highX {
		vel.X = -vel.X
	}
	if pos.Y <= lowY || pos.Y >= highY {
		vel.Y = -vel.Y
	}
	p.SetVelocity(vel)
}
