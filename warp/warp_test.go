package warp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/moshbrosh/frame"
	"github.com/opd-ai/moshbrosh/motion"
	simtest "github.com/opd-ai/moshbrosh/testing"
)

func fieldFor(t *testing.T, w, h, bs int, vectors map[[2]int]motion.Vector) *motion.Field {
	t.Helper()
	g, err := motion.NewGrid(w, h, bs, 4)
	require.NoError(t, err)
	f := motion.NewField(g)
	for k, v := range vectors {
		f.Set(k[0], k[1], v)
	}
	return f
}

func TestWarpZeroFieldIsIdentity(t *testing.T) {
	src := simtest.Texture(20, 12, 0, 0)
	out, err := Warp(src, fieldFor(t, 20, 12, 8, nil))
	require.NoError(t, err)
	assert.True(t, out.Equal(src))
	assert.NotSame(t, &src.Pix[0], &out.Pix[0])
}

func TestWarpBlockCopy(t *testing.T) {
	src := simtest.Texture(16, 8, 0, 0)
	field := fieldFor(t, 16, 8, 8, map[[2]int]motion.Vector{
		{0, 0}: {DX: 2, DY: 0},
		{1, 0}: {DX: 2, DY: 0},
	})

	out, err := Warp(src, field)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, src.RGBAAt(x+2, y), out.RGBAAt(x, y))
		}
		// Right block origin clamps to W-bw, reading itself.
		for x := 8; x < 16; x++ {
			assert.Equal(t, src.RGBAAt(x, y), out.RGBAAt(x, y))
		}
	}
}

func TestWarpClampsBlockOrigin(t *testing.T) {
	src := simtest.Texture(10, 10, 0, 0)
	field := fieldFor(t, 10, 10, 8, map[[2]int]motion.Vector{
		{0, 0}: {DX: -3, DY: -5},
		{1, 1}: {DX: -4, DY: 6},
	})

	out, err := Warp(src, field)
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, src.RGBAAt(x, y), out.RGBAAt(x, y))
		}
	}
	// Partial 2x2 block: x origin 8-4=4, y origin clamps to H-bh=8.
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, src.RGBAAt(4+x, 8+y), out.RGBAAt(8+x, 8+y))
		}
	}
}

func TestWarpAcrossLayouts(t *testing.T) {
	src := simtest.Texture(16, 16, 0, 0)
	field := fieldFor(t, 16, 16, 8, map[[2]int]motion.Vector{
		{0, 0}: {DX: 4, DY: 2},
		{1, 1}: {DX: -2, DY: -6},
	})
	want, err := Warp(src, field)
	require.NoError(t, err)

	flipped, err := frame.New(16, 16, frame.BottomUp, frame.BGRA)
	require.NoError(t, err)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			flipped.SetRGBA(x, y, src.RGBAAt(x, y))
		}
	}

	got, err := Warp(flipped, field)
	require.NoError(t, err)
	assert.Equal(t, frame.BottomUp, got.Rows)
	assert.Equal(t, frame.BGRA, got.Channels)
	assert.True(t, got.Equal(want))

	mixed := src.NewLike()
	require.NoError(t, WarpInto(mixed, flipped, field))
	assert.True(t, mixed.Equal(want))
}

func TestWarpErrors(t *testing.T) {
	src := simtest.Texture(16, 16, 0, 0)

	_, err := Warp(src, fieldFor(t, 32, 16, 8, nil))
	assert.ErrorIs(t, err, ErrFieldMismatch)

	_, err = Warp(src, &motion.Field{BlocksX: 2, BlocksY: 2, BlockSize: 8})
	assert.ErrorIs(t, err, ErrFieldMismatch)

	err = WarpInto(src, src, fieldFor(t, 16, 16, 8, nil))
	assert.ErrorIs(t, err, ErrAliasedBuffers)

	small := simtest.Texture(8, 8, 0, 0)
	err = WarpInto(small, src, fieldFor(t, 16, 16, 8, nil))
	assert.ErrorIs(t, err, frame.ErrSizeMismatch)

	_, err = Warp(nil, fieldFor(t, 16, 16, 8, nil))
	assert.ErrorIs(t, err, frame.ErrNilBuffer)
}
