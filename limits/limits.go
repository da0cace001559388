// Package limits provides centralized bounds for frame sizes and mosh parameters.
// This ensures consistent validation across the frame, motion and sequence packages.
package limits

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MaxFrameDimension is the largest accepted frame width or height in pixels.
	MaxFrameDimension = 16384

	// MaxFramePixels caps width*height for a single buffer.
	// At 4 float32 channels this is 1 GiB of pixel data.
	MaxFramePixels = 1 << 26

	// ChannelsPerPixel is the fixed channel count of every frame buffer.
	ChannelsPerPixel = 4

	// MaxBlockSize is the largest block edge accepted for estimation and warping.
	MaxBlockSize = 512

	// MaxSearchRange bounds the SAD search radius in pixels.
	MaxSearchRange = 256

	// MaxDisplacement bounds the gradient solver clamp in pixels.
	MaxDisplacement = 256

	// MaxDuration bounds the mosh window length in frames.
	MaxDuration = 100000

	// MaxMoshStart bounds the first moshed frame so that the last window
	// index always fits in an int32.
	MaxMoshStart = math.MaxInt32 - MaxDuration
)

// Ranges exposed by the host effect parameter UI.
// Host adapters may enforce them; the core only enforces the Max* values above.
const (
	HostMoshFrameMin   = 1
	HostMoshFrameMax   = 10000
	HostDurationMin    = 1
	HostDurationMax    = 1000
	HostSearchRangeMin = 4
	HostSearchRangeMax = 64
	HostBlendMin       = 0.0
	HostBlendMax       = 100.0
)

var (
	// ErrFrameEmpty indicates a zero or negative frame dimension.
	ErrFrameEmpty = errors.New("empty frame")

	// ErrFrameTooLarge indicates a frame exceeding MaxFrameDimension or MaxFramePixels.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrOutOfRange indicates a parameter outside its accepted interval.
	ErrOutOfRange = errors.New("value out of range")
)

// ValidateFrameSize validates frame dimensions against MaxFrameDimension and MaxFramePixels.
func ValidateFrameSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrFrameEmpty, width, height)
	}
	if width > MaxFrameDimension || height > MaxFrameDimension {
		return fmt.Errorf("%w: %dx%d exceeds dimension limit %d", ErrFrameTooLarge, width, height, MaxFrameDimension)
	}
	if width*height > MaxFramePixels {
		return fmt.Errorf("%w: %d pixels exceeds limit %d", ErrFrameTooLarge, width*height, MaxFramePixels)
	}
	return nil
}

// ValidateRange checks min <= value <= max and names the parameter in the error.
func ValidateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrOutOfRange, name, value, min, max)
	}
	return nil
}

// ValidateBlockSize validates a block edge length (1..MaxBlockSize).
func ValidateBlockSize(blockSize int) error {
	return ValidateRange("block size", blockSize, 1, MaxBlockSize)
}

// ValidateSearchRange validates a SAD search radius (0..MaxSearchRange).
func ValidateSearchRange(searchRange int) error {
	return ValidateRange("search range", searchRange, 0, MaxSearchRange)
}

// ValidateDuration validates a mosh window length (1..MaxDuration).
func ValidateDuration(duration int) error {
	return ValidateRange("duration", duration, 1, MaxDuration)
}

// ValidateMoshStart validates a first moshed frame index (0..MaxMoshStart).
func ValidateMoshStart(moshStart int) error {
	return ValidateRange("mosh start", moshStart, 0, MaxMoshStart)
}

// ValidateBlend validates a blend factor in [0, 1] inclusive.
// NaN is rejected.
func ValidateBlend(blend float64) error {
	if !(blend >= 0 && blend <= 1) {
		return fmt.Errorf("%w: blend %v not in [0, 1]", ErrOutOfRange, blend)
	}
	return nil
}
