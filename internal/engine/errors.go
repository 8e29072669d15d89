package engine

import "errors"

// ErrDegenerateBounds indicates an arena with no room for a particle center.
var ErrDegenerateBounds = errors.New("engine: arena bounds leave no valid range")
