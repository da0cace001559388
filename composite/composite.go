// Package composite mixes chain output over the original footage.
package composite

import (
	"fmt"

	"github.com/opd-ai/moshbrosh/config"
	"github.com/opd-ai/moshbrosh/frame"
	"github.com/opd-ai/moshbrosh/limits"
)

// Marker colors frames are pulled toward while the chain has not completed.
// Pixels already within placeholderEpsilon of magenta use the alternate so
// that every pixel moves.
var (
	placeholderTint    = [3]float32{1, 0, 1}
	placeholderAltTint = [3]float32{0, 1, 0}
	placeholderEpsilon = float32(1.0 / 64)
)

// Blend returns original*(1-blend) + effect*blend per channel. The
// endpoints return exact copies of original and effect.
func Blend(original, effect *frame.Buffer, blend float64) (*frame.Buffer, error) {
	if err := original.Validate(); err != nil {
		return nil, err
	}
	dst := original.NewLike()
	if err := BlendInto(dst, original, effect, blend); err != nil {
		return nil, err
	}
	return dst, nil
}

// BlendInto is Blend writing into dst. dst takes the layout it already has;
// dst may be original or effect.
func BlendInto(dst, original, effect *frame.Buffer, blend float64) error {
	if err := limits.ValidateBlend(blend); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidBlend, blend)
	}
	for _, b := range []*frame.Buffer{dst, original, effect} {
		if err := b.Validate(); err != nil {
			return err
		}
	}
	if err := original.CheckSize(effect); err != nil {
		return err
	}
	if err := original.CheckSize(dst); err != nil {
		return err
	}

	switch blend {
	case 0:
		copyLogical(dst, original)
		return nil
	case 1:
		copyLogical(dst, effect)
		return nil
	}

	b := float32(blend)
	inv := 1 - b
	if dst.SameLayout(original) && dst.SameLayout(effect) {
		for i, o := range original.Pix {
			dst.Pix[i] = o*inv + effect.Pix[i]*b
		}
		return nil
	}
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			o, e := original.RGBAAt(x, y), effect.RGBAAt(x, y)
			var c [4]float32
			for i := range c {
				c[i] = o[i]*inv + e[i]*b
			}
			dst.SetRGBA(x, y, c)
		}
	}
	return nil
}

// Placeholder returns the transitional marker shown for mosh-range frames
// requested before the chain completes: each pixel mixed halfway toward
// magenta, or toward green when it is already near magenta, alpha kept.
// Every pixel of the marker differs from the original.
func Placeholder(original *frame.Buffer) *frame.Buffer {
	dst := original.NewLike()
	for y := 0; y < original.Height; y++ {
		for x := 0; x < original.Width; x++ {
			c := original.RGBAAt(x, y)
			tint := placeholderTint
			if nearTint(c, placeholderTint) {
				tint = placeholderAltTint
			}
			for i := range tint {
				c[i] = 0.5*c[i] + 0.5*tint[i]
			}
			dst.SetRGBA(x, y, c)
		}
	}
	return dst
}

func nearTint(c [4]float32, tint [3]float32) bool {
	for i, t := range tint {
		if d := c[i] - t; d > placeholderEpsilon || d < -placeholderEpsilon {
			return false
		}
	}
	return true
}

func copyLogical(dst, src *frame.Buffer) {
	if dst == src {
		return
	}
	if dst.SameLayout(src) {
		copy(dst.Pix, src.Pix)
		return
	}
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			dst.SetRGBA(x, y, src.RGBAAt(x, y))
		}
	}
}
