package physics

import "errors"

// Error categories shared by the geometry and dynamics packages.
var (
	// ErrDegenerateGeometry marks zero-area polygons, zero-length axes and similar input.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrRootFinding marks a polynomial solver that produced no usable roots.
	ErrRootFinding = errors.New("root finding failed")
	// ErrMissingCollisionData marks a response requested without contact information.
	ErrMissingCollisionData = errors.New("missing collision data")
	// ErrConfiguration marks malformed property or config values.
	ErrConfiguration = errors.New("invalid configuration")
)
