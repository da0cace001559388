package testing

import (
	"math"

	"github.com/opd-ai/moshbrosh/frame"
)

// TextureValue is a deterministic hashed gray level for pixel (x, y).
// Neighbouring values are uncorrelated, so a block matches only at its true offset.
func TextureValue(x, y int) float32 {
	h := uint32(x+1000)*73856093 ^ uint32(y+1000)*19349663
	h = (h ^ h>>13) * 0x5bd1e995
	h ^= h >> 15
	return float32(h&0xff) / 255
}

// Texture returns a gray hashed texture whose content is moved by (sx, sy):
// pixel (x, y) holds TextureValue(x-sx, y-sy).
func Texture(width, height, sx, sy int) *frame.Buffer {
	b := mustNew(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := TextureValue(x-sx, y-sy)
			b.SetRGBA(x, y, [4]float32{v, v, v, 1})
		}
	}
	return b
}

// Smooth returns a separable cosine pattern moved by (sx, sy). Its gradients
// vary in both directions, which keeps the Lucas-Kanade system well conditioned.
func Smooth(width, height int, sx, sy float64) *frame.Buffer {
	b := mustNew(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fx, fy := float64(x)-sx, float64(y)-sy
			v := float32(0.5 + 0.2*math.Cos(0.5*fx) + 0.2*math.Cos(0.45*fy))
			b.SetRGBA(x, y, [4]float32{v, v, v, 1})
		}
	}
	return b
}

// Solid returns a frame filled with one RGBA color.
func Solid(width, height int, c [4]float32) *frame.Buffer {
	b := mustNew(width, height)
	b.Fill(c)
	return b
}

// ShiftedSequence returns n texture frames where frame i is moved by (i*dx, i*dy).
func ShiftedSequence(width, height, n, dx, dy int) []*frame.Buffer {
	frames := make([]*frame.Buffer, n)
	for i := range frames {
		frames[i] = Texture(width, height, i*dx, i*dy)
	}
	return frames
}

// PanSequence returns n texture frames panning by (dx, dy) for the first half
// and by (-dy, dx) afterwards, so consecutive motion fields differ.
func PanSequence(width, height, n, dx, dy int) []*frame.Buffer {
	frames := make([]*frame.Buffer, n)
	sx, sy := 0, 0
	for i := range frames {
		frames[i] = Texture(width, height, sx, sy)
		if i < n/2 {
			sx, sy = sx+dx, sy+dy
		} else {
			sx, sy = sx-dy, sy+dx
		}
	}
	return frames
}

func mustNew(width, height int) *frame.Buffer {
	b, err := frame.New(width, height, frame.TopDown, frame.RGBA)
	if err != nil {
		panic(err)
	}
	return b
}
