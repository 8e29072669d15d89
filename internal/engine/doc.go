// Package engine implements the ideal-gas physics: wall reflection,
// pairwise collision detection and the elastic-collision velocity update.
//
// Every function is stateless and works only on the particles passed in:
//
//   - [WallCollision] / [Bounds.Reflect]: per-axis velocity sign flip
//   - [DetectCollision]: touching and approaching test
//   - [VelocityAfterCollision]: 2D elastic update for unequal masses
//   - [AdjustVelocitiesOnCollision]: brute-force pass over all pairs
//   - [AdvanceFrame]: collisions, walls, then integration
//
// # Ordering
//
// Pairs are visited i < j in ascending index order. Within a pair both new
// velocities are computed before either is assigned; across pairs the
// current state is reread, so a particle in two collisions during one pass
// applies them one after the other.
package engine
