package sequence

import "errors"

// Sentinel errors for sequence cache operations.
// These errors enable reliable error classification using errors.Is().

// Submission and request errors.
var (
	// ErrNotConfigured indicates an operation on a cache with no parameter snapshot.
	ErrNotConfigured = errors.New("sequence not configured")

	// ErrDimensionMismatch indicates a frame whose size differs from the established size.
	ErrDimensionMismatch = errors.New("frame dimensions differ from sequence")

	// ErrInvalidIndex indicates a negative frame index.
	ErrInvalidIndex = errors.New("invalid frame index")
)

// Analysis errors.
var (
	// ErrAnalysisFailed indicates the chain failed for the current snapshot.
	// It is not retried until the parameters change or the cache is reset.
	ErrAnalysisFailed = errors.New("analysis failed")
)

// Persistence errors.
var (
	// ErrInvalidSnapshot indicates a malformed or unsupported snapshot record.
	ErrInvalidSnapshot = errors.New("invalid sequence snapshot")
)
