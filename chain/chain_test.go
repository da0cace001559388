package chain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/moshbrosh/config"
	"github.com/opd-ai/moshbrosh/frame"
	"github.com/opd-ai/moshbrosh/motion"
	simtest "github.com/opd-ai/moshbrosh/testing"
	"github.com/opd-ai/moshbrosh/warp"
)

func params(start, duration, blockSize, searchRange int) Params {
	return Params{
		Params: config.Params{
			MoshStart:   start,
			Duration:    duration,
			BlockSize:   blockSize,
			SearchRange: searchRange,
		},
		Motion: motion.Options{SearchStep: 2},
	}
}

// manualChain recomputes the recursion step by step.
func manualChain(t *testing.T, frames []*frame.Buffer, p Params) []*frame.Buffer {
	t.Helper()
	g, err := motion.NewGrid(frames[0].Width, frames[0].Height, p.BlockSize, p.SearchRange)
	require.NoError(t, err)

	acc := frames[p.ReferenceIndex()]
	var out []*frame.Buffer
	for f := p.FirstIndex(); f <= p.LastIndex(); f++ {
		field, err := p.Strategy.Estimate(context.Background(), frames[f], frames[max(f-1, 0)], g, p.Motion)
		require.NoError(t, err)
		acc, err = warp.Warp(acc, field)
		require.NoError(t, err)
		out = append(out, acc)
	}
	return out
}

func TestAccumulateSingleBlockScenario(t *testing.T) {
	frames := simtest.ShiftedSequence(4, 4, 3, 1, 0)
	p := params(1, 2, 4, 2)

	out, err := Accumulate(context.Background(), frames[0], FromSlice(frames), p)
	require.NoError(t, err)
	require.Len(t, out, 2)

	want := manualChain(t, frames, p)
	assert.True(t, out[0].Equal(want[0]))
	assert.True(t, out[1].Equal(want[1]))

	// A block covering the whole frame can only read from origin (0, 0).
	assert.True(t, out[0].Equal(frames[0]))
	assert.True(t, out[1].Equal(frames[0]))
}

func TestAccumulateCompoundsWarps(t *testing.T) {
	frames := simtest.ShiftedSequence(32, 32, 5, 2, 0)
	p := params(1, 4, 8, 4)

	out, err := Accumulate(context.Background(), frames[0], FromSlice(frames), p)
	require.NoError(t, err)
	require.Len(t, out, 4)

	want := manualChain(t, frames, p)
	for i := range out {
		assert.True(t, out[i].Equal(want[i]), "output %d", i)
	}

	// Each step reads the accumulated frame two pixels further left.
	assert.Equal(t, frames[0].RGBAAt(14, 5), out[0].RGBAAt(16, 5))
	assert.Equal(t, frames[0].RGBAAt(12, 5), out[1].RGBAAt(16, 5))
	assert.Equal(t, frames[0].RGBAAt(10, 5), out[2].RGBAAt(16, 5))
	assert.False(t, out[1].Equal(frames[2]))
}

func TestAccumulateOutputsAreIndependent(t *testing.T) {
	frames := simtest.ShiftedSequence(16, 16, 3, 2, 0)
	out, err := Accumulate(context.Background(), frames[0], FromSlice(frames), params(1, 2, 8, 4))
	require.NoError(t, err)

	before := out[1].Clone()
	out[0].Fill([4]float32{})
	assert.True(t, out[1].Equal(before))
	assert.NotSame(t, &frames[0].Pix[0], &out[0].Pix[0])
}

func TestAccumulateFromFirstFrame(t *testing.T) {
	frames := simtest.ShiftedSequence(16, 16, 3, 2, 0)
	p := params(0, 2, 8, 4)

	out, err := Accumulate(context.Background(), frames[0], FromSlice(frames), p)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Frame 0 has no predecessor and is compared with itself.
	assert.True(t, out[0].Equal(frames[0]))
	assert.True(t, out[1].Equal(manualChain(t, frames, p)[1]))
}

func TestAccumulateObserver(t *testing.T) {
	frames := simtest.ShiftedSequence(16, 16, 6, 2, 0)
	p := params(2, 3, 8, 4)

	var steps []int
	p.Observe = func(s Step) {
		steps = append(steps, s.Index)
		assert.Equal(t, 4, s.Stats.Blocks)
		assert.NoError(t, s.Field.Validate())
	}

	_, err := Accumulate(context.Background(), frames[1], FromSlice(frames), p)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, steps)
}

type countingClock struct {
	calls int
}

func (c *countingClock) Now() time.Time {
	c.calls++
	return time.Date(2026, 1, 1, 0, 0, c.calls, 0, time.UTC)
}

func TestAccumulateUsesClock(t *testing.T) {
	frames := simtest.ShiftedSequence(16, 16, 6, 2, 0)
	p := params(2, 3, 8, 4)
	clock := &countingClock{}
	p.Clock = clock

	_, err := Accumulate(context.Background(), frames[1], FromSlice(frames), p)
	require.NoError(t, err)
	assert.Equal(t, 2, clock.calls, "start and completion")
}

func TestAccumulateDeterministicAcrossWorkers(t *testing.T) {
	frames := simtest.PanSequence(40, 24, 8, 2, 0)

	for _, s := range []motion.Strategy{motion.StrategySAD, motion.StrategyGradient} {
		serial := params(1, 6, 8, 4)
		serial.Strategy = s
		serial.Motion.Workers = 1
		parallel := serial
		parallel.Motion.Workers = 8

		a, err := Accumulate(context.Background(), frames[0], FromSlice(frames), serial)
		require.NoError(t, err)
		b, err := Accumulate(context.Background(), frames[0], FromSlice(frames), parallel)
		require.NoError(t, err)
		for i := range a {
			assert.Equal(t, a[i].Digest(), b[i].Digest(), "%s output %d", s, i)
		}
	}
}

func TestAccumulateErrors(t *testing.T) {
	frames := simtest.ShiftedSequence(16, 16, 4, 2, 0)
	ctx := context.Background()

	t.Run("missing frame", func(t *testing.T) {
		out, err := Accumulate(ctx, frames[0], FromSlice(frames[:2]), params(1, 3, 8, 4))
		assert.ErrorIs(t, err, ErrMissingFrame)
		assert.Nil(t, out)
	})

	t.Run("nil reference", func(t *testing.T) {
		_, err := Accumulate(ctx, nil, FromSlice(frames), params(1, 2, 8, 4))
		assert.ErrorIs(t, err, ErrNoReference)
	})

	t.Run("invalid params", func(t *testing.T) {
		_, err := Accumulate(ctx, frames[0], FromSlice(frames), params(1, 0, 8, 4))
		assert.ErrorIs(t, err, config.ErrInvalidDuration)
	})

	t.Run("size mismatch", func(t *testing.T) {
		mixed := append([]*frame.Buffer{}, frames...)
		mixed[2] = simtest.Texture(8, 16, 0, 0)
		_, err := Accumulate(ctx, frames[0], FromSlice(mixed), params(1, 2, 8, 4))
		assert.ErrorIs(t, err, frame.ErrSizeMismatch)
	})

	t.Run("cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Accumulate(cancelled, frames[0], FromSlice(frames), params(1, 2, 8, 4))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParamsFrom(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = motion.StrategyGradient
	cfg.Workers = 3

	p := ParamsFrom(cfg)
	assert.Equal(t, cfg.Params, p.Params)
	assert.Equal(t, motion.StrategyGradient, p.Strategy)
	assert.Equal(t, 3, p.Motion.Workers)
}
