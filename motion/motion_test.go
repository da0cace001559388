package motion

import (
	"context"
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/moshbrosh/frame"
	simtest "github.com/opd-ai/moshbrosh/testing"
)

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		blockSize     int
		wantX, wantY  int
		wantErr       bool
	}{
		{"exact", 32, 32, 8, 4, 4, false},
		{"partial", 33, 17, 16, 3, 2, false},
		{"smaller than block", 4, 4, 16, 1, 1, false},
		{"zero block", 16, 16, 0, 0, 0, true},
		{"empty frame", 0, 16, 8, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.width, tt.height, tt.blockSize, 4)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGrid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantX, g.BlocksX)
			assert.Equal(t, tt.wantY, g.BlocksY)
			assert.Equal(t, tt.wantX*tt.wantY, g.Blocks())
		})
	}
}

func TestGridBlockBoundsClipsPartialBlocks(t *testing.T) {
	g, err := NewGrid(20, 10, 8, 4)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 8, 8), g.BlockBounds(0, 0))
	assert.Equal(t, image.Rect(16, 8, 20, 10), g.BlockBounds(2, 1))
}

func TestFieldValidate(t *testing.T) {
	g, err := NewGrid(16, 16, 8, 4)
	require.NoError(t, err)

	f := NewField(g)
	require.NoError(t, f.Validate())
	assert.True(t, f.Covers(16, 16))
	assert.True(t, f.Covers(15, 9))
	assert.False(t, f.Covers(17, 16))

	f.Vectors = f.Vectors[:3]
	assert.ErrorIs(t, f.Validate(), ErrInvalidField)

	var nilField *Field
	assert.ErrorIs(t, nilField.Validate(), ErrInvalidField)
}

func TestFieldCloneIsIndependent(t *testing.T) {
	g, err := NewGrid(16, 8, 8, 4)
	require.NoError(t, err)
	f := NewField(g)
	f.Set(1, 0, Vector{DX: 2, DY: -2})

	c := f.Clone()
	c.Set(1, 0, Vector{})

	assert.Equal(t, Vector{DX: 2, DY: -2}, f.At(1, 0))
	assert.True(t, c.At(1, 0).IsZero())
}

func uniformField(g Grid, v Vector) *Field {
	f := NewField(g)
	for i := range f.Vectors {
		f.Vectors[i] = v
	}
	return f
}

func TestSADRecoversTranslation(t *testing.T) {
	tests := []struct {
		name   string
		sx, sy int
		want   Vector
	}{
		{"right", 2, 0, Vector{DX: -2, DY: 0}},
		{"up", 0, -2, Vector{DX: 0, DY: 2}},
		{"diagonal", -2, 2, Vector{DX: 2, DY: -2}},
		{"still", 0, 0, Vector{}},
	}

	g, err := NewGrid(32, 32, 8, 4)
	require.NoError(t, err)
	prev := simtest.Texture(32, 32, 0, 0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curr := simtest.Texture(32, 32, tt.sx, tt.sy)
			f, err := StrategySAD.Estimate(context.Background(), curr, prev, g, Options{SearchStep: 2, Workers: 2})
			require.NoError(t, err)
			if diff := cmp.Diff(uniformField(g, tt.want), f); diff != "" {
				t.Errorf("field mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSADTieKeepsFirstCandidate(t *testing.T) {
	flat := simtest.Solid(16, 16, [4]float32{0.5, 0.5, 0.5, 1})

	g, err := NewGrid(16, 16, 8, 4)
	require.NoError(t, err)
	f, err := StrategySAD.Estimate(context.Background(), flat, flat, g, Options{SearchStep: 2})
	require.NoError(t, err)
	for _, v := range f.Vectors {
		assert.Equal(t, Vector{DX: -4, DY: -4}, v)
	}

	g, err = NewGrid(16, 16, 8, 3)
	require.NoError(t, err)
	f, err = StrategySAD.Estimate(context.Background(), flat, flat, g, Options{SearchStep: 2})
	require.NoError(t, err)
	for _, v := range f.Vectors {
		assert.Equal(t, Vector{DX: -3, DY: -3}, v)
	}
}

func TestGradientRecoversSubBlockMotion(t *testing.T) {
	tests := []struct {
		name   string
		sx, sy float64
		opts   Options
		want   Vector
	}{
		{"right", 1, 0, Options{}, Vector{DX: -1, DY: 0}},
		{"down", 0, 1, Options{}, Vector{DX: 0, DY: -1}},
		{"diagonal", -1, 1, Options{}, Vector{DX: 1, DY: -1}},
		{"two pixels", 2, 0, Options{}, Vector{DX: -2, DY: 0}},
		{"clamped", 2, 0, Options{MaxDisplacement: 1}, Vector{DX: -1, DY: 0}},
		{"identical", 0, 0, Options{}, Vector{}},
	}

	g, err := NewGrid(48, 48, 16, 16)
	require.NoError(t, err)
	prev := simtest.Smooth(48, 48, 0, 0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curr := simtest.Smooth(48, 48, tt.sx, tt.sy)
			f, err := StrategyGradient.Estimate(context.Background(), curr, prev, g, tt.opts)
			require.NoError(t, err)
			if diff := cmp.Diff(uniformField(g, tt.want), f); diff != "" {
				t.Errorf("field mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGradientFlatFrameIsStatic(t *testing.T) {
	flat := simtest.Solid(32, 32, [4]float32{0.2, 0.4, 0.6, 1})
	g, err := NewGrid(32, 32, 16, 16)
	require.NoError(t, err)

	f, err := StrategyGradient.Estimate(context.Background(), flat, flat, g, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.Stats().StaticFraction)
}

func TestEstimateDeterministicAcrossWorkers(t *testing.T) {
	frames := simtest.PanSequence(64, 40, 4, 2, 0)
	g, err := NewGrid(64, 40, 8, 4)
	require.NoError(t, err)

	for _, s := range []Strategy{StrategySAD, StrategyGradient} {
		serial, err := s.Estimate(context.Background(), frames[3], frames[2], g, Options{Workers: 1})
		require.NoError(t, err)
		parallel, err := s.Estimate(context.Background(), frames[3], frames[2], g, Options{Workers: 8})
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(serial, parallel), s.String())
	}
}

func TestEstimateErrors(t *testing.T) {
	a := simtest.Texture(16, 16, 0, 0)
	b := simtest.Texture(16, 8, 0, 0)
	g, err := NewGrid(16, 16, 8, 4)
	require.NoError(t, err)

	_, err = StrategySAD.Estimate(context.Background(), a, b, g, Options{})
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = StrategySAD.Estimate(context.Background(), a, nil, g, Options{})
	assert.ErrorIs(t, err, frame.ErrNilBuffer)

	other, err := NewGrid(16, 8, 8, 4)
	require.NoError(t, err)
	_, err = StrategySAD.Estimate(context.Background(), a, a, other, Options{})
	assert.ErrorIs(t, err, ErrInvalidGrid)

	_, err = Strategy(9).Estimate(context.Background(), a, a, g, Options{})
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestEstimateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := simtest.Texture(32, 32, 0, 0)
	g, err := NewGrid(32, 32, 8, 4)
	require.NoError(t, err)

	_, err = StrategySAD.Estimate(ctx, a, a, g, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"sad", StrategySAD, false},
		{"", StrategySAD, false},
		{"Gradient", StrategyGradient, false},
		{"lk", StrategyGradient, false},
		{"optical", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownStrategy, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	text, err := StrategyGradient.MarshalText()
	require.NoError(t, err)
	var s Strategy
	require.NoError(t, s.UnmarshalText(text))
	assert.Equal(t, StrategyGradient, s)
}

func TestFieldStats(t *testing.T) {
	f := &Field{BlocksX: 2, BlocksY: 1, BlockSize: 8, Vectors: []Vector{{DX: 3, DY: 4}, {}}}
	st := f.Stats()

	assert.Equal(t, 2, st.Blocks)
	assert.InDelta(t, 2.5, st.MeanMagnitude, 1e-9)
	assert.InDelta(t, math.Sqrt(12.5), st.StdDevMagnitude, 1e-9)
	assert.InDelta(t, 5.0, st.MaxMagnitude, 1e-9)
	assert.InDelta(t, 0.5, st.StaticFraction, 1e-9)

	single := &Field{BlocksX: 1, BlocksY: 1, BlockSize: 8, Vectors: []Vector{{DX: 1}}}
	assert.Zero(t, single.Stats().StdDevMagnitude)
}
