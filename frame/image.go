package frame

import (
	"image"
	"image/color"
)

// FromImage converts an 8-bit image into a float buffer with values v/255.
func FromImage(img image.Image, rows RowOrder, channels ChannelOrder) (*Buffer, error) {
	bounds := img.Bounds()
	b, err := New(bounds.Dx(), bounds.Dy(), rows, channels)
	if err != nil {
		return nil, err
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Height; y++ {
			src := nrgba.Pix[nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < b.Width; x++ {
				s := src[x*4 : x*4+4]
				b.SetRGBA(x, y, [4]float32{
					float32(s[0]) / 255, float32(s[1]) / 255, float32(s[2]) / 255, float32(s[3]) / 255,
				})
			}
		}
		return b, nil
	}

	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			b.SetRGBA(x, y, [4]float32{
				float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255,
			})
		}
	}
	return b, nil
}

// ToImage converts the buffer to an 8-bit NRGBA image, rounding and clamping to [0, 255].
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < b.Width; x++ {
			c := b.RGBAAt(x, y)
			for i := 0; i < 4; i++ {
				dst[x*4+i] = to8(c[i])
			}
		}
	}
	return img
}

func to8(v float32) uint8 {
	v *= 255
	if v <= 0 || v != v {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
