package config

import "errors"

// Configuration errors. They are raised before any engine state is touched.
var (
	// ErrInvalidMoshStart indicates a negative or oversized mosh start frame.
	ErrInvalidMoshStart = errors.New("invalid mosh start frame")

	// ErrInvalidDuration indicates a duration of zero or fewer frames.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidBlockSize indicates a non-positive or oversized block size.
	ErrInvalidBlockSize = errors.New("invalid block size")

	// ErrInvalidSearchRange indicates a negative or oversized search range.
	ErrInvalidSearchRange = errors.New("invalid search range")

	// ErrInvalidBlend indicates a blend outside [0, 1].
	ErrInvalidBlend = errors.New("invalid blend")

	// ErrInvalidTuning indicates negative estimator tuning values.
	ErrInvalidTuning = errors.New("invalid estimator tuning")

	// ErrNoFrames indicates a clip with no frames to adjust against.
	ErrNoFrames = errors.New("no frames")
)
