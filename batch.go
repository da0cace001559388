package moshbrosh

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/moshbrosh/chain"
	"github.com/opd-ai/moshbrosh/composite"
	"github.com/opd-ai/moshbrosh/config"
	"github.com/opd-ai/moshbrosh/frame"
)

// BatchStep describes one completed chain step of a batch run.
type BatchStep = chain.Step

// BatchObserver is notified after each chain step of RunBatch.
type BatchObserver = chain.StepObserver

// RunBatch moshes a whole clip in one pass. frames must be in index order and
// share one size; the mosh window must lie inside the clip (see
// config.Config.AdjustToLength). The result has one frame per input: frames
// outside the window are the input buffers themselves, frames inside are the
// chain output blended by cfg.Blend.
func RunBatch(ctx context.Context, frames []*frame.Buffer, cfg config.Config) ([]*frame.Buffer, error) {
	return RunBatchObserved(ctx, frames, cfg, nil)
}

// RunBatchObserved is RunBatch with a per-step callback.
func RunBatchObserved(ctx context.Context, frames []*frame.Buffer, cfg config.Config, observe BatchObserver) ([]*frame.Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, config.ErrNoFrames
	}
	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if err := frames[0].CheckSize(f); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	if cfg.LastIndex() >= len(frames) {
		return nil, fmt.Errorf("%w: window ends at frame %d, clip has %d frames",
			chain.ErrMissingFrame, cfg.LastIndex(), len(frames))
	}

	p := chain.ParamsFrom(cfg)
	p.RunID = uuid.New().String()
	p.Observe = observe

	logrus.WithFields(logrus.Fields{
		"function": "RunBatch",
		"run_id":   p.RunID,
		"frames":   len(frames),
		"width":    frames[0].Width,
		"height":   frames[0].Height,
		"blend":    cfg.Blend,
	}).Info("Running batch datamosh")

	outputs, err := chain.Accumulate(ctx, frames[cfg.ReferenceIndex()], chain.FromSlice(frames), p)
	if err != nil {
		return nil, err
	}

	result := make([]*frame.Buffer, len(frames))
	copy(result, frames)
	for i, out := range outputs {
		idx := cfg.MoshStart + i
		blended, err := composite.Blend(frames[idx], out, cfg.Blend)
		if err != nil {
			return nil, fmt.Errorf("blend frame %d: %w", idx, err)
		}
		result[idx] = blended
	}
	return result, nil
}
