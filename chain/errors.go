package chain

import "errors"

var (
	// ErrMissingFrame indicates a raw frame of the window was not available.
	ErrMissingFrame = errors.New("missing input frame")

	// ErrNoReference indicates the chain was started without a reference frame.
	ErrNoReference = errors.New("reference frame not pinned")
)
