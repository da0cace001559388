package warp

import "errors"

var (
	// ErrFieldMismatch indicates a motion field whose block grid does not tile the frame.
	ErrFieldMismatch = errors.New("motion field does not cover frame")

	// ErrAliasedBuffers indicates a destination that shares storage with the source.
	ErrAliasedBuffers = errors.New("warp destination aliases source")
)
