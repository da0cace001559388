package frame

import "errors"

// Sentinel errors for frame buffer operations.
var (
	// ErrNilBuffer indicates a nil buffer was supplied.
	ErrNilBuffer = errors.New("nil frame buffer")

	// ErrPixelCount indicates a pixel slice whose length is not width*height*4.
	ErrPixelCount = errors.New("pixel count does not match dimensions")

	// ErrSizeMismatch indicates two buffers with different dimensions.
	ErrSizeMismatch = errors.New("frame size mismatch")
)
