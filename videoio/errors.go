package videoio

import "errors"

var (
	// ErrUnsupportedFormat indicates a path whose format cannot be read or written.
	ErrUnsupportedFormat = errors.New("unsupported video format")

	// ErrNoFrames indicates a source that yielded no frames.
	ErrNoFrames = errors.New("source contains no frames")

	// ErrInconsistentSize indicates frames of different sizes in one source or sink.
	ErrInconsistentSize = errors.New("frames differ in size")
)
