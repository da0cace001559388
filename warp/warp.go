package warp

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/moshbrosh/frame"
	"github.com/opd-ai/moshbrosh/motion"
)

// Warp returns a new buffer where every block of src is replaced by the
// block read at its displacement. The output has the source's layout.
func Warp(src *frame.Buffer, field *motion.Field) (*frame.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	dst := src.NewLike()
	if err := WarpInto(dst, src, field); err != nil {
		return nil, err
	}
	return dst, nil
}

// WarpInto performs Warp writing into dst, which must match src in size and
// must not share its pixel storage.
//
// For a block at (x0, y0) with actual extent bw x bh, the source origin is
// clamped to [0, W-bw] x [0, H-bh] so the whole block is read from inside the
// frame. Each pixel coordinate is clamped again before reading.
func WarpInto(dst, src *frame.Buffer, field *motion.Field) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	if err := src.CheckSize(dst); err != nil {
		return err
	}
	if &dst.Pix[0] == &src.Pix[0] {
		return ErrAliasedBuffers
	}
	if err := field.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrFieldMismatch, err)
	}
	if !field.Covers(src.Width, src.Height) {
		return fmt.Errorf("%w: %dx%d blocks of %d for %dx%d frame",
			ErrFieldMismatch, field.BlocksX, field.BlocksY, field.BlockSize, src.Width, src.Height)
	}

	w, h, bs := src.Width, src.Height, field.BlockSize
	sameLayout := dst.SameLayout(src)
	moved := 0

	for by := 0; by < field.BlocksY; by++ {
		y0 := by * bs
		bh := min(bs, h-y0)
		for bx := 0; bx < field.BlocksX; bx++ {
			x0 := bx * bs
			bw := min(bs, w-x0)
			v := field.At(bx, by)
			if !v.IsZero() {
				moved++
			}

			sx0 := frame.Clamp(x0+v.DX, 0, w-bw)
			sy0 := frame.Clamp(y0+v.DY, 0, h-bh)

			for y := 0; y < bh; y++ {
				sy := frame.Clamp(sy0+y, 0, h-1)
				if sameLayout {
					srcRow := src.Row(sy)[sx0*frame.Channels : (sx0+bw)*frame.Channels]
					dstRow := dst.Row(y0 + y)[x0*frame.Channels : (x0+bw)*frame.Channels]
					copy(dstRow, srcRow)
					continue
				}
				for x := 0; x < bw; x++ {
					sx := frame.Clamp(sx0+x, 0, w-1)
					dst.SetRGBA(x0+x, y0+y, src.RGBAAt(sx, sy))
				}
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":     "WarpInto",
		"width":        w,
		"height":       h,
		"block_size":   bs,
		"moved_blocks": moved,
	}).Debug("Warped frame")

	return nil
}
