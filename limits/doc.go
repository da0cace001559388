// Package limits provides centralized bounds and validation functions for
// frame buffers and datamosh parameters.
//
// # Frame Limits
//
//   - MaxFrameDimension (16384): largest accepted width or height.
//   - MaxFramePixels (2^26): largest accepted width*height. Every pixel carries
//     ChannelsPerPixel float32 values, so this bounds a single buffer at 1 GiB.
//
// # Parameter Limits
//
//   - MaxBlockSize, MaxSearchRange, MaxDisplacement and MaxDuration bound the
//     cost of motion estimation and of the accumulation chain.
//   - The Host* constants mirror the parameter sliders of the original host
//     plugin. They are informational for host adapters; the engine itself
//     accepts any value inside the Max* bounds.
//
// # Validation Functions
//
//	if err := limits.ValidateFrameSize(w, h); err != nil {
//	    // errors.Is(err, limits.ErrFrameEmpty) or limits.ErrFrameTooLarge
//	}
//
//	if err := limits.ValidateBlend(0.5); err != nil {
//	    // errors.Is(err, limits.ErrOutOfRange)
//	}
package limits
