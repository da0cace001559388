// Package frame provides the fixed-layout pixel buffer shared by every stage of
// the datamosh pipeline.
//
// A Buffer stores Width*Height pixels of 4 float32 channels with values
// conceptually in [0, 1]. Row order (top-down or bottom-up storage) and channel
// order (RGBA or BGRA) are resolved inside the buffer, so callers always address
// pixels with logical top-down (x, y) coordinates.
package frame

import (
	"fmt"
	"math"

	"github.com/opd-ai/moshbrosh/limits"
)

// RowOrder describes how rows are laid out in memory, the equivalent of a
// signed row stride in host pixel buffers.
type RowOrder uint8

const (
	// TopDown stores row 0 first.
	TopDown RowOrder = iota
	// BottomUp stores the last row first (negative row stride).
	BottomUp
)

// String returns the row order name.
func (r RowOrder) String() string {
	switch r {
	case TopDown:
		return "top-down"
	case BottomUp:
		return "bottom-up"
	default:
		return fmt.Sprintf("RowOrder(%d)", uint8(r))
	}
}

// ChannelOrder describes the meaning of the four channels of a pixel.
type ChannelOrder uint8

const (
	// RGBA stores red, green, blue, alpha.
	RGBA ChannelOrder = iota
	// BGRA stores blue, green, red, alpha.
	BGRA
)

// String returns the channel order name.
func (c ChannelOrder) String() string {
	switch c {
	case RGBA:
		return "RGBA"
	case BGRA:
		return "BGRA"
	default:
		return fmt.Sprintf("ChannelOrder(%d)", uint8(c))
	}
}

// Channels is the number of float32 values per pixel.
const Channels = limits.ChannelsPerPixel

// Buffer is a fixed-size 4-channel floating point frame.
//
// Invariant: len(Pix) == Width*Height*Channels. A Buffer is owned by exactly
// one holder; stages that need to keep a frame take a Clone.
type Buffer struct {
	Width    int
	Height   int
	Pix      []float32
	Rows     RowOrder
	Channels ChannelOrder
}

// New allocates a zeroed buffer.
func New(width, height int, rows RowOrder, channels ChannelOrder) (*Buffer, error) {
	if err := limits.ValidateFrameSize(width, height); err != nil {
		return nil, err
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Pix:      make([]float32, width*height*Channels),
		Rows:     rows,
		Channels: channels,
	}, nil
}

// FromPixels wraps an existing pixel slice without copying it.
func FromPixels(width, height int, pix []float32, rows RowOrder, channels ChannelOrder) (*Buffer, error) {
	if err := limits.ValidateFrameSize(width, height); err != nil {
		return nil, err
	}
	if want := width * height * Channels; len(pix) != want {
		return nil, fmt.Errorf("%w: got %d values, want %d for %dx%d", ErrPixelCount, len(pix), want, width, height)
	}
	return &Buffer{Width: width, Height: height, Pix: pix, Rows: rows, Channels: channels}, nil
}

// Validate checks the length invariant.
func (b *Buffer) Validate() error {
	if b == nil {
		return ErrNilBuffer
	}
	if err := limits.ValidateFrameSize(b.Width, b.Height); err != nil {
		return err
	}
	if want := b.Width * b.Height * Channels; len(b.Pix) != want {
		return fmt.Errorf("%w: got %d values, want %d for %dx%d", ErrPixelCount, len(b.Pix), want, b.Width, b.Height)
	}
	return nil
}

// rowIndex maps a logical top-down row to its storage row.
func (b *Buffer) rowIndex(y int) int {
	if b.Rows == BottomUp {
		return b.Height - 1 - y
	}
	return y
}

// offset returns the index of channel 0 of pixel (x, y).
func (b *Buffer) offset(x, y int) int {
	return (b.rowIndex(y)*b.Width + x) * Channels
}

// PixelAt returns the 4 channels of the pixel at logical coordinates (x, y).
// The returned slice aliases the buffer. Out-of-range coordinates panic.
func (b *Buffer) PixelAt(x, y int) []float32 {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		panic(fmt.Sprintf("frame: pixel (%d,%d) outside %dx%d", x, y, b.Width, b.Height))
	}
	o := b.offset(x, y)
	return b.Pix[o : o+Channels : o+Channels]
}

// ClampedPixelAt is PixelAt with both coordinates clamped to the frame.
func (b *Buffer) ClampedPixelAt(x, y int) []float32 {
	return b.PixelAt(Clamp(x, 0, b.Width-1), Clamp(y, 0, b.Height-1))
}

// Row returns the Width*Channels values of logical row y.
func (b *Buffer) Row(y int) []float32 {
	start := b.rowIndex(y) * b.Width * Channels
	end := start + b.Width*Channels
	return b.Pix[start:end:end]
}

// SameSize reports whether o has the same dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return o != nil && b.Width == o.Width && b.Height == o.Height
}

// SameLayout reports whether o has the same dimensions, row order and channel order.
func (b *Buffer) SameLayout(o *Buffer) bool {
	return b.SameSize(o) && b.Rows == o.Rows && b.Channels == o.Channels
}

// CheckSize returns ErrSizeMismatch when o differs in dimensions.
func (b *Buffer) CheckSize(o *Buffer) error {
	if o == nil {
		return ErrNilBuffer
	}
	if !b.SameSize(o) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, b.Width, b.Height, o.Width, o.Height)
	}
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.Pix = append([]float32(nil), b.Pix...)
	return &c
}

// NewLike allocates a zeroed buffer with the same layout as b.
func (b *Buffer) NewLike() *Buffer {
	return &Buffer{
		Width:    b.Width,
		Height:   b.Height,
		Pix:      make([]float32, len(b.Pix)),
		Rows:     b.Rows,
		Channels: b.Channels,
	}
}

// Equal reports bit-exact equality of the logical pixels.
// Buffers with different storage orders compare by logical coordinates.
func (b *Buffer) Equal(o *Buffer) bool {
	if !b.SameSize(o) {
		return false
	}
	for y := 0; y < b.Height; y++ {
		br, or := b.Row(y), o.Row(y)
		if b.Channels == o.Channels {
			for i := range br {
				if math.Float32bits(br[i]) != math.Float32bits(or[i]) {
					return false
				}
			}
			continue
		}
		for x := 0; x < b.Width; x++ {
			if b.RGBAAt(x, y) != o.RGBAAt(x, y) {
				return false
			}
		}
	}
	return true
}

// Fill sets every pixel to c, given in RGBA order.
func (b *Buffer) Fill(c [4]float32) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			b.SetRGBA(x, y, c)
		}
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
