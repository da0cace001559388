// Package chain implements the recursive accumulation at the heart of the
// datamosh effect.
//
// The chain is seeded with the reference frame, the raw frame just before the
// mosh window. Each step estimates motion between two consecutive raw frames
// and warps the already warped result by it, so block errors compound across
// the window:
//
//	acc := reference
//	for f := moshStart; f < moshStart+duration; f++ {
//	    acc = Warp(acc, Estimate(raw[f], raw[f-1]))
//	    out[f] = acc
//	}
//
// Steps must run in order; Accumulate either produces every output of the
// window or none.
package chain
