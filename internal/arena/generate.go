package arena

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/particle"
)

// Capacity estimates how many particles of the given radius fit, packing
// them on a square grid of side 2*radius. For a square arena of length L
// this is ((L - 2*margin) / (2*radius))^2.
func (a *Arena) Capacity(radius float64) int {
	if !(radius > 0) {
		return 0
	}
	inner := func(size float64) float64 {
		return max(math.Floor((size-2*a.bounds.Margin)/(2*radius)), 0)
	}
	// Saturate instead of overflowing for huge size/radius ratios.
	n := inner(a.bounds.Width) * inner(a.bounds.Height)
	if n >= math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

// Generate adds count copies of template at random positions inside the
// arena and returns how many were placed. Requests above Capacity are
// silently capped. Each position is resampled while it overlaps an existing
// particle, up to the placement attempt limit.
func (a *Arena) Generate(template particle.Particle, count int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	r := template.Radius()
	if err := a.bounds.Validate(r); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrArenaTooSmall, err)
	}

	if capacity := a.Capacity(r); count > capacity {
		a.log.V(1).Info("capping particle count", "tag", template.Tag(), "requested", count, "capacity", capacity)
		count = capacity
	}

	lowX, highX, lowY, highY := a.bounds.Range(r)
	overlapped := 0
	for i := 0; i < count; i++ {
		var pos r2.Vec
		free := false
		for attempt := 0; attempt < max(a.attempts, 1) && !free; attempt++ {
			pos = r2.Vec{
				X: lowX + a.rng.Float64()*(highX-lowX),
				Y: lowY + a.rng.Float64()*(highY-lowY),
			}
			free = !a.overlaps(pos, r)
		}
		if !free {
			overlapped++
		}

		p := template
		p.SetPosition(pos)
		a.particles = append(a.particles, p)
	}

	if overlapped > 0 {
		a.log.V(1).Info("placed overlapping particles", "tag", template.Tag(), "count", overlapped)
	}
	a.log.V(2).Info("generated particles", "tag", template.Tag(), "count", count, "total", len(a.particles))
	return count, nil
}

func (a *Arena) overlaps(pos r2.Vec, radius float64) bool {
	for _, p := range a.particles {
		if r2.Norm(r2.Sub(p.Position(), pos)) < p.Radius()+radius {
			return true
		}
	}
	return false
}
