package engine

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/particle"
)

// Integrate moves p by one unit timestep of its velocity.
func Integrate(p *particle.Particle) {
	p.SetPosition(r2.Add(p.Position(), p.Velocity()))
}

type frameOptions struct {
	parallel bool
	minChunk int
}

// FrameOption configures AdvanceFrame.
type FrameOption func(*frameOptions)

// WithParallel shards the wall and integration passes across goroutines in
// chunks of at least minChunk particles. Both passes touch one particle at a
// time, so trajectories are identical to the sequential run. The pairwise
// collision pass always runs sequentially.
func WithParallel(minChunk int) FrameOption {
	return func(o *frameOptions) {
		o.parallel = true
		o.minChunk = minChunk
	}
}

// AdvanceFrame runs one tick: pairwise collisions over the full state, wall
// reflection for every particle, then one Euler step for every particle.
// It returns the number of colliding pairs resolved.
func AdvanceFrame(ps []particle.Particle, b Bounds, opts ...FrameOption) int {
	var o frameOptions
	for _, opt := range opts {
		opt(&o)
	}

	collisions := AdjustVelocitiesOnCollision(ps)

	move := func(start, end int) {
		for i := start; i < end; i++ {
			b.Reflect(&ps[i])
			Integrate(&ps[i])
		}
	}

	if o.parallel {
		ParallelFor(len(ps), o.minChunk, move)
	} else {
		move(0, len(ps))
	}

	return collisions
}
