// Package motion estimates per-block displacement fields between two frames.
//
// A frame is tiled into a Grid of square blocks (the last row and column may
// be partial). For every block the estimator produces a Vector, the offset at
// which the block's content is found in the previous frame. The Warper in
// package warp reads blocks at exactly that offset.
//
// # Strategies
//
// Two interchangeable strategies are selected with a Strategy value:
//
//   - StrategySAD: exhaustive search of the luma sum of absolute differences
//     over offsets in [-SearchRange, SearchRange] spaced SearchStep apart
//     (default 2). Candidates are scanned with dy outer and dx inner, both
//     ascending; ties keep the first candidate, which makes the result
//     reproducible.
//   - StrategyGradient: a per-block Lucas-Kanade solve from central difference
//     gradients of the previous luma plane. Blocks whose structure tensor is
//     nearly singular are static; others are rounded and clamped to
//     MaxDisplacement (default 32).
//
// Usage:
//
//	grid, err := motion.NewGrid(w, h, 16, 16)
//	if err != nil {
//	    return err
//	}
//	field, err := motion.StrategySAD.Estimate(ctx, curr, prev, grid, motion.DefaultOptions())
//
// Estimation only needs to be good enough to drive a stylized decay; it is not
// a general optical flow implementation.
package motion
