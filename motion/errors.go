package motion

import "errors"

// Sentinel errors for motion estimation.
var (
	// ErrSizeMismatch indicates current and previous frames of different sizes.
	ErrSizeMismatch = errors.New("motion: frame size mismatch")

	// ErrInvalidGrid indicates a grid that is malformed or does not match the frames.
	ErrInvalidGrid = errors.New("motion: invalid block grid")

	// ErrInvalidField indicates a field violating its length invariant.
	ErrInvalidField = errors.New("motion: invalid motion field")

	// ErrUnknownStrategy indicates an unrecognized estimation strategy.
	ErrUnknownStrategy = errors.New("motion: unknown strategy")
)
