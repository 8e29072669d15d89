package arena

import "errors"

var (
	// ErrInvalidBounds indicates arena dimensions that leave no interior.
	ErrInvalidBounds = errors.New("arena: invalid bounds")

	// ErrArenaTooSmall indicates a particle radius with no valid center range.
	ErrArenaTooSmall = errors.New("arena: too small for particle radius")

	// ErrNegativeCount indicates a negative generation count.
	ErrNegativeCount = errors.New("arena: negative particle count")

	// ErrInvalidScale indicates a non-positive or non-finite speed factor.
	ErrInvalidScale = errors.New("arena: speed factor must be positive and finite")
)
