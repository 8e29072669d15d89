// Package analysis summarises the speed distribution of a gas.
//
//   - [Histogram]: per-tag speed buckets for display layers
//   - [Temperature]: mean kinetic energy per particle
//   - [MaxwellBoltzmann2D] / [ExpectedCounts]: equilibrium reference curve
//
// Tags are opaque here as well; callers decide how a tag maps to a color or
// series.
package analysis
