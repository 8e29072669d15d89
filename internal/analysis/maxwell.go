package analysis

import (
	"math"

	"github.com/san-kum/idealgas/internal/particle"
)

// Temperature is the mean kinetic energy per particle. In two dimensions
// equipartition gives <KE> = kT, with k = 1.
func Temperature(ps []particle.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	e := 0.0
	for _, p := range ps {
		e += p.KineticEnergy()
	}
	return e / float64(len(ps))
}

// MaxwellBoltzmann2D is the equilibrium speed density for particles of the
// given mass at temperature kT.
func MaxwellBoltzmann2D(v, mass, kT float64) float64 {
	if v < 0 || kT <= 0 || mass <= 0 {
		return 0
	}
	a := mass / kT
	return a * v * math.Exp(-a*v*v/2)
}

// speedCDF is P(speed <= v) under the 2D distribution.
func speedCDF(v, mass, kT float64) float64 {
	if v <= 0 {
		return 0
	}
	return 1 - math.Exp(-mass*v*v/(2*kT))
}

// ExpectedCounts returns how many of n particles an equilibrium gas puts in
// each bin of h. The last bin absorbs the tail, matching Histogram.
func ExpectedCounts(h *Histogram, n int, mass, kT float64) []float64 {
	out := make([]float64, h.bins)
	if n == 0 || kT <= 0 || mass <= 0 {
		return out
	}
	for i := range out {
		lo := float64(i) * h.binWidth
		hi := lo + h.binWidth
		upper := speedCDF(hi, mass, kT)
		if i == h.bins-1 {
			upper = 1
		}
		out[i] = float64(n) * (upper - speedCDF(lo, mass, kT))
	}
	return out
}

// MeanSpeed of ps, zero for an empty slice.
func MeanSpeed(ps []particle.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	s := 0.0
	for _, p := range ps {
		s += p.Speed()
	}
	return s / float64(len(ps))
}
