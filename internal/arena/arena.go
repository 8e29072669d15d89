package arena

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/engine"
	"github.com/san-kum/idealgas/internal/particle"
)

const defaultPlacementAttempts = 100

// Arena owns the live particle collection of one simulation and advances
// it frame by frame. Arenas are independent of each other; a single Arena
// is not safe for concurrent use.
type Arena struct {
	bounds    engine.Bounds
	particles []particle.Particle
	frame     uint64
	seed      uint64
	rng       *rand.Rand
	minChunk  int
	attempts  int
	log       logr.Logger
}

// Option configures an Arena.
type Option func(*Arena)

// WithSeed seeds the placement RNG.
func WithSeed(seed uint64) Option {
	return func(a *Arena) { a.seed = seed }
}

// WithParallel shards the per-particle wall and integration passes.
func WithParallel(minChunk int) Option {
	return func(a *Arena) { a.minChunk = minChunk }
}

// WithPlacementAttempts bounds how many random positions Generate tries
// before accepting an overlapping one.
func WithPlacementAttempts(n int) Option {
	return func(a *Arena) { a.attempts = n }
}

func WithLogger(log logr.Logger) Option {
	return func(a *Arena) { a.log = log }
}

// New creates an empty arena.
func New(b engine.Bounds, opts ...Option) (*Arena, error) {
	if err := b.Validate(0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBounds, err)
	}

	a := &Arena{
		bounds:   b,
		seed:     1,
		attempts: defaultPlacementAttempts,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.rng = rand.New(rand.NewSource(a.seed))
	return a, nil
}

func (a *Arena) Bounds() engine.Bounds { return a.bounds }
func (a *Arena) Frame() uint64         { return a.frame }
func (a *Arena) Seed() uint64          { return a.seed }
func (a *Arena) Len() int              { return len(a.particles) }

// Particles returns a copy of the current particle state.
func (a *Arena) Particles() []particle.Particle {
	out := make([]particle.Particle, len(a.particles))
	copy(out, a.particles)
	return out
}

// Add places p as given. The particle must fit the arena for its radius.
func (a *Arena) Add(p particle.Particle) error {
	if err := a.bounds.Validate(p.Radius()); err != nil {
		return fmt.Errorf("%w: %v", ErrArenaTooSmall, err)
	}
	a.particles = append(a.particles, p)
	return nil
}

// AdvanceOneFrame resolves collisions, reflects off walls and integrates
// positions, in that order. It returns the number of colliding pairs.
func (a *Arena) AdvanceOneFrame() int {
	var opts []engine.FrameOption
	if a.minChunk > 0 {
		opts = append(opts, engine.WithParallel(a.minChunk))
	}
	collisions := engine.AdvanceFrame(a.particles, a.bounds, opts...)
	a.frame++
	return collisions
}

// ScaleSpeeds multiplies every velocity by factor.
func (a *Arena) ScaleSpeeds(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, factor)
	}
	for i := range a.particles {
		a.particles[i].SetVelocity(r2.Scale(factor, a.particles[i].Velocity()))
	}
	return nil
}

func (a *Arena) Speeds() []float64 {
	speeds := make([]float64, len(a.particles))
	for i, p := range a.particles {
		speeds[i] = p.Speed()
	}
	return speeds
}

func (a *Arena) SpeedsByTag() map[particle.Tag][]float64 {
	out := make(map[particle.Tag][]float64)
	for _, p := range a.particles {
		out[p.Tag()] = append(out[p.Tag()], p.Speed())
	}
	return out
}

// Tags lists the distinct tags in order of first appearance.
func (a *Arena) Tags() []particle.Tag {
	seen := make(map[particle.Tag]bool)
	var tags []particle.Tag
	for _, p := range a.particles {
		if !seen[p.Tag()] {
			seen[p.Tag()] = true
			tags = append(tags, p.Tag())
		}
	}
	return tags
}

func (a *Arena) KineticEnergy() float64 {
	e := 0.0
	for _, p := range a.particles {
		e += p.KineticEnergy()
	}
	return e
}

func (a *Arena) Momentum() r2.Vec {
	var m r2.Vec
	for _, p := range a.particles {
		m = r2.Add(m, p.Momentum())
	}
	return m
}
