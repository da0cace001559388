// Package main provides the moshbrosh command-line datamosher.
//
// # Overview
//
// moshbrosh reads a clip, replaces a run of frames with block motion
// accumulated onto the frame before the run, and writes the result. Frames
// outside the run pass through untouched.
//
// # Usage
//
// Mosh with default settings (30 frames from frame 10):
//
//	go run ./cmd/moshbrosh -i frames/ -o moshed/
//
// Gradient estimator with a half blend and animated WebP output:
//
//	go run ./cmd/moshbrosh -i clip.mpg -o moshed.webp -strategy gradient -m 50
//
// Load settings from YAML and override one of them:
//
//	go run ./cmd/moshbrosh -config mosh.yaml -i clip.webp -o out/ -d 12
//
// # Configuration Options
//
// Mosh parameters:
//   - -f: First moshed frame (default: 10)
//   - -d: Number of moshed frames (default: 30)
//   - -b: Block size in pixels (default: 16)
//   - -s: Search range in pixels (default: 16)
//   - -m: Blend percent, 0-100 (default: 100)
//
// Estimator tuning:
//   - -strategy: sad or gradient (default: sad)
//   - -step: SAD candidate spacing (default: 2)
//   - -max-displacement: Gradient vector clamp (default: 32)
//   - -workers: Estimation workers (default: GOMAXPROCS)
//
// Flags given on the command line take precedence over the -config file.
// The window is shortened or moved to fit the clip before moshing.
//
// # Exit Codes
//
//   - 0: success
//   - 1: invalid configuration or failed run
//   - 2: flag parse error
package main
