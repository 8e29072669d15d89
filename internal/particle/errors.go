package particle

import "errors"

var (
	// ErrNonPositiveMass is returned when a particle is built with mass <= 0.
	ErrNonPositiveMass = errors.New("particle: mass must be positive")

	// ErrNonPositiveRadius is returned when a particle is built with radius <= 0.
	ErrNonPositiveRadius = errors.New("particle: radius must be positive")

	// ErrNonFinite is returned when position or velocity holds NaN or Inf.
	ErrNonFinite = errors.New("particle: position and velocity must be finite")
)
