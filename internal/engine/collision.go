package engine

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/idealgas/internal/particle"
)

// DetectCollision reports whether p1 and p2 touch (center distance at most
// the sum of radii) and are moving toward each other. Touching pairs that
// are already separating do not collide again.
func DetectCollision(p1, p2 particle.Particle) bool {
	dv := r2.Sub(p1.Velocity(), p2.Velocity())
	dx := r2.Sub(p1.Position(), p2.Position())

	touching := r2.Norm(dx) <= p1.Radius()+p2.Radius()
	approaching := r2.Dot(dv, dx) < 0

	return touching && approaching
}

// VelocityAfterCollision returns p1's velocity after an elastic collision
// with p2. Neither particle is modified. Coincident centers have no line of
// contact, so p1's velocity is returned unchanged.
func VelocityAfterCollision(p1, p2 particle.Particle) r2.Vec {
	dv := r2.Sub(p1.Velocity(), p2.Velocity())
	dx := r2.Sub(p1.Position(), p2.Position())

	dist2 := r2.Norm2(dx)
	if dist2 == 0 {
		return p1.Velocity()
	}

	massRatio := 2 * p2.Mass() / (p1.Mass() + p2.Mass())
	scalar := r2.Dot(dv, dx) / dist2

	return r2.Sub(p1.Velocity(), r2.Scale(massRatio*scalar, dx))
}

// AdjustVelocitiesOnCollision resolves every colliding pair i < j in index
// order and returns how many pairs were resolved. Both velocities of a pair
// come from the pair's state before either is written. A particle hit twice
// in one pass sees its second collision computed from the velocity left by
// the first.
func AdjustVelocitiesOnCollision(ps []particle.Particle) int {
	resolved := 0
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if !DetectCollision(ps[i], ps[j]) {
				continue
			}
			v1 := VelocityAfterCollision(ps[i], ps[j])
			v2 := VelocityAfterCollision(ps[j], ps[i])

			ps[i].SetVelocity(v1)
			ps[j].SetVelocity(v2)
			resolved++
		}
	}
	return resolved
}
