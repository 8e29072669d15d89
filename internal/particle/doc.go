// Package particle defines the gas particle record moved by the engine.
//
// A [Particle] carries position and velocity as [r2.Vec] values, a strictly
// positive mass and radius, and an opaque [Tag] used only by display layers.
// Speed, kinetic energy and momentum are derived on demand.
package particle
