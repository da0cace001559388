// Package moshbrosh implements a datamosh video effect engine.
//
// Datamoshing imitates the look of broken compressed video: from a chosen
// frame on, the picture stops updating and its blocks are dragged along the
// motion of the footage instead, smearing the old image over the new scene.
// The engine estimates per-block motion between consecutive raw frames and
// applies it recursively to a frozen reference frame.
//
// # Batch Processing
//
// Whole clips are processed with RunBatch:
//
//	cfg := config.Default()
//	cfg.MoshStart, cfg.Duration = 30, 60
//	cfg, err := cfg.AdjustToLength(len(frames))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := moshbrosh.RunBatch(ctx, frames, cfg)
//
// # Incremental Hosts
//
// Editors that render frames out of order and in parallel use an Engine.
// Frames may arrive in any order from any goroutine; requests inside the mosh
// window return a placeholder until every input frame has been seen:
//
//	engine, err := moshbrosh.New(moshbrosh.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := engine.Render(ctx, moshbrosh.DefaultHostParams(), index, frame)
//	if res.Status == sequence.Placeholder {
//	    // render again once the remaining frames are submitted
//	}
//
// For the same frames and configuration, Engine and RunBatch produce
// bit-identical output.
//
// # Core Types
//
//   - [Engine]: incremental host adapter around a sequence cache
//   - [HostParams]: raw effect panel values, resolved to parameters
//   - [Options]: engine construction options
//   - [TimeProvider]: injectable clock for statistics
//
// # Subpackages
//
//   - frame: float RGBA buffers with row and channel order
//   - motion: block motion estimation (SAD search and gradient solve)
//   - warp: block warping along a motion field
//   - chain: the recursive accumulation chain
//   - sequence: frame cache and analysis state machine
//   - composite: blending and the placeholder marker
//   - config: parameters, defaults, validation, YAML loading
//   - videoio: PNG, WebP and MPEG-1 frame sources and sinks
package moshbrosh
