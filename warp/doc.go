// Package warp moves frame blocks along a motion field.
//
// Warping is a pure block copy: the destination block at (x0, y0) is filled
// from the source block at (x0+dx, y0+dy), with the block origin clamped so the
// whole block stays inside the source. No interpolation or blending happens
// here; repeated warps of an already warped frame are what smear the image.
//
//	out, err := warp.Warp(accumulated, field)
package warp
