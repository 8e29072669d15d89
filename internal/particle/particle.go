package particle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Tag is the display identity of a particle (a color or species label).
// The physics core carries it but never reads it.
type Tag string

// Particle is a circular gas particle. Mass, radius and tag are fixed at
// construction; position and velocity are mutated by the engine.
type Particle struct {
	position r2.Vec
	velocity r2.Vec
	mass     float64
	radius   float64
	tag      Tag
}

// New returns a particle or an error if mass or radius is not strictly
// positive, or any component is NaN or Inf.
func New(position, velocity r2.Vec, mass, radius float64, tag Tag) (Particle, error) {
	if !finite(position) || !finite(velocity) {
		return Particle{}, ErrNonFinite
	}
	if !(mass > 0) || math.IsInf(mass, 0) {
		return Particle{}, ErrNonPositiveMass
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return Particle{}, ErrNonPositiveRadius
	}
	return Particle{
		position: position,
		velocity: velocity,
		mass:     mass,
		radius:   radius,
		tag:      tag,
	}, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(position, velocity r2.Vec, mass, radius float64, tag Tag) Particle {
	p, err := New(position, velocity, mass, radius, tag)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Particle) Position() r2.Vec { return p.position }
func (p Particle) Velocity() r2.Vec { return p.velocity }
func (p Particle) Mass() float64    { return p.mass }
func (p Particle) Radius() float64  { return p.radius }
func (p Particle) Tag() Tag         { return p.tag }

func (p *Particle) SetPosition(pos r2.Vec) { p.position = pos }
func (p *Particle) SetVelocity(vel r2.Vec) { p.velocity = vel }

// Speed is the magnitude of the current velocity.
func (p Particle) Speed() float64 { return r2.Norm(p.velocity) }

func (p Particle) KineticEnergy() float64 {
	return 0.5 * p.mass * r2.Norm2(p.velocity)
}

func (p Particle) Momentum() r2.Vec { return r2.Scale(p.mass, p.velocity) }

// IsValid reports whether position and velocity are finite.
func (p Particle) IsValid() bool {
	return finite(p.position) && finite(p.velocity)
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
