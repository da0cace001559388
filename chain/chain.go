package chain

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/moshbrosh/config"
	"github.com/opd-ai/moshbrosh/frame"
	"github.com/opd-ai/moshbrosh/motion"
	"github.com/opd-ai/moshbrosh/warp"
)

// Inputs looks up the raw, never warped frame at index.
type Inputs func(index int) (*frame.Buffer, bool)

// FromSlice adapts an ordered frame slice to Inputs.
func FromSlice(frames []*frame.Buffer) Inputs {
	return func(index int) (*frame.Buffer, bool) {
		if index < 0 || index >= len(frames) || frames[index] == nil {
			return nil, false
		}
		return frames[index], true
	}
}

// Clock times a chain run. It is satisfied by moshbrosh.TimeProvider.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// Step describes one completed warp of the chain.
type Step struct {
	Index int
	Field *motion.Field
	Stats motion.FieldStats
}

// StepObserver is called after each warp, in index order.
type StepObserver func(Step)

// Params configures one run of the chain.
type Params struct {
	config.Params

	Strategy motion.Strategy
	Motion   motion.Options

	// RunID tags log entries of the run. Empty generates a new id.
	RunID string
	// Observe is optional.
	Observe StepObserver
	// Clock times the run for logging. Nil uses the system clock.
	Clock Clock
}

// ParamsFrom builds chain parameters from an engine configuration.
func ParamsFrom(cfg config.Config) Params {
	return Params{
		Params:   cfg.Params,
		Strategy: cfg.Strategy,
		Motion:   cfg.MotionOptions(),
	}
}

// Accumulate runs the datamosh recursion. Starting from reference it warps
// the accumulated frame once per index in [MoshStart, MoshStart+Duration-1],
// strictly in order, each time by the motion between raw frames f and
// max(f-1, 0). Output i of the returned slice belongs to frame MoshStart+i.
//
// Motion fields depend only on raw inputs, so they are estimated
// concurrently before the ordered warp pass. Any missing input or failure
// returns no outputs.
func Accumulate(ctx context.Context, reference *frame.Buffer, inputs Inputs, p Params) ([]*frame.Buffer, error) {
	if err := p.Params.Validate(); err != nil {
		return nil, err
	}
	if reference == nil {
		return nil, ErrNoReference
	}
	if err := reference.Validate(); err != nil {
		return nil, err
	}
	if p.RunID == "" {
		p.RunID = uuid.New().String()
	}
	if p.Clock == nil {
		p.Clock = ClockFunc(time.Now)
	}

	log := logrus.WithFields(logrus.Fields{
		"function":   "Accumulate",
		"run_id":     p.RunID,
		"mosh_frame": p.MoshStart,
		"duration":   p.Duration,
		"block_size": p.BlockSize,
		"strategy":   p.Strategy.String(),
	})
	log.Info("Starting accumulation chain")
	started := p.Clock.Now()

	grid, err := motion.NewGrid(reference.Width, reference.Height, p.BlockSize, p.SearchRange)
	if err != nil {
		return nil, err
	}

	fields, err := estimateFields(ctx, inputs, grid, p)
	if err != nil {
		log.WithError(err).Error("Motion estimation failed")
		return nil, err
	}

	outputs := make([]*frame.Buffer, p.Duration)
	accumulated := reference
	for i, field := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := warp.Warp(accumulated, field)
		if err != nil {
			log.WithError(err).WithField("frame", p.MoshStart+i).Error("Warp failed")
			return nil, fmt.Errorf("warp frame %d: %w", p.MoshStart+i, err)
		}
		accumulated = next
		outputs[i] = accumulated.Clone()

		if p.Observe != nil {
			p.Observe(Step{Index: p.MoshStart + i, Field: field, Stats: field.Stats()})
		}
	}

	log.WithFields(logrus.Fields{
		"outputs":     len(outputs),
		"duration_ms": p.Clock.Now().Sub(started).Milliseconds(),
	}).Info("Accumulation chain complete")

	return outputs, nil
}

// estimateFields computes the field for every step of the window.
func estimateFields(ctx context.Context, inputs Inputs, grid motion.Grid, p Params) ([]*motion.Field, error) {
	frames := make(map[int]*frame.Buffer, p.WindowSize())
	for i := p.ReferenceIndex(); i <= p.LastIndex(); i++ {
		buf, ok := inputs(i)
		if !ok || buf == nil {
			return nil, fmt.Errorf("%w: frame %d", ErrMissingFrame, i)
		}
		if !grid.Fits(buf.Width, buf.Height) {
			return nil, fmt.Errorf("%w: frame %d is %dx%d, reference %dx%d",
				frame.ErrSizeMismatch, i, buf.Width, buf.Height, grid.Width, grid.Height)
		}
		frames[i] = buf
	}

	workers := p.Motion.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	opts := p.Motion
	opts.Workers = 1

	fields := make([]*motion.Field, p.Duration)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range fields {
		eg.Go(func() error {
			f := p.MoshStart + i
			field, err := p.Strategy.Estimate(egCtx, frames[f], frames[max(f-1, 0)], grid, opts)
			if err != nil {
				return fmt.Errorf("estimate frame %d: %w", f, err)
			}
			fields[i] = field
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return fields, nil
}
