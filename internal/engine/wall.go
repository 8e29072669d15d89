package engine

import "github.com/san-kum/idealgas/internal/particle"

// WallCollision flips the velocity component on every axis where the
// particle center is within one radius of a wall of a square arena. The
// position is left alone; the following integration step moves it back.
func WallCollision(arenaLength, margin float64, p *particle.Particle) {
	Square(arenaLength, margin).Reflect(p)
}
