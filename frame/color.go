package frame

// Luminance weights (ITU-R BT.601).
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// channel indices of red and blue for a channel order; green and alpha are fixed.
func (c ChannelOrder) redBlue() (r, b int) {
	if c == BGRA {
		return 2, 0
	}
	return 0, 2
}

// Luma returns the luminance of the pixel at (x, y).
func (b *Buffer) Luma(x, y int) float32 {
	p := b.PixelAt(x, y)
	ri, bi := b.Channels.redBlue()
	return LumaR*p[ri] + LumaG*p[1] + LumaB*p[bi]
}

// LumaPlane returns the luminance of every pixel in logical top-down order.
func (b *Buffer) LumaPlane() []float32 {
	out := make([]float32, b.Width*b.Height)
	ri, bi := b.Channels.redBlue()
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		base := y * b.Width
		for x := 0; x < b.Width; x++ {
			p := row[x*Channels:]
			out[base+x] = LumaR*p[ri] + LumaG*p[1] + LumaB*p[bi]
		}
	}
	return out
}

// RGBAAt returns the pixel at (x, y) in RGBA order regardless of storage.
func (b *Buffer) RGBAAt(x, y int) [4]float32 {
	p := b.PixelAt(x, y)
	ri, bi := b.Channels.redBlue()
	return [4]float32{p[ri], p[1], p[bi], p[3]}
}

// SetRGBA stores an RGBA color at (x, y) in the buffer's channel order.
func (b *Buffer) SetRGBA(x, y int, c [4]float32) {
	p := b.PixelAt(x, y)
	ri, bi := b.Channels.redBlue()
	p[ri], p[1], p[bi], p[3] = c[0], c[1], c[2], c[3]
}
