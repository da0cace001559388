package motion

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/moshbrosh/frame"
	"github.com/opd-ai/moshbrosh/limits"
)

// Strategy selects the block motion estimator. Both strategies honour the
// same contract: Estimate(curr, prev, grid) produces a Field of source offsets.
type Strategy uint8

const (
	// StrategySAD runs an exhaustive luma SAD search over even offsets.
	StrategySAD Strategy = iota
	// StrategyGradient solves a per-block Lucas-Kanade system.
	StrategyGradient
)

// String returns the strategy name used in configuration files and flags.
func (s Strategy) String() string {
	switch s {
	case StrategySAD:
		return "sad"
	case StrategyGradient:
		return "gradient"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// ParseStrategy converts a name ("sad", "gradient") to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sad", "":
		return StrategySAD, nil
	case "gradient", "lk", "lucas-kanade":
		return StrategyGradient, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if s != StrategySAD && s != StrategyGradient {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Default tuning values.
const (
	DefaultSearchStep      = 2
	DefaultMaxDisplacement = 32
	staticDeterminant      = 1e-6
)

// Options tunes estimation. Zero values select the defaults.
type Options struct {
	// SearchStep is the SAD candidate spacing in pixels.
	SearchStep int
	// MaxDisplacement clamps each gradient displacement component.
	MaxDisplacement int
	// Workers bounds the number of block rows estimated concurrently.
	Workers int
}

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return Options{
		SearchStep:      DefaultSearchStep,
		MaxDisplacement: DefaultMaxDisplacement,
		Workers:         runtime.GOMAXPROCS(0),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SearchStep <= 0 {
		o.SearchStep = d.SearchStep
	}
	if o.MaxDisplacement <= 0 {
		o.MaxDisplacement = d.MaxDisplacement
	}
	if o.MaxDisplacement > limits.MaxDisplacement {
		o.MaxDisplacement = limits.MaxDisplacement
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	return o
}

// blockEstimator computes the vector of one block from luma planes.
type blockEstimator func(cur, prev []float32, g Grid, bx, by int, o Options) Vector

func (s Strategy) blockEstimator() (blockEstimator, error) {
	switch s {
	case StrategySAD:
		return estimateBlockSAD, nil
	case StrategyGradient:
		return estimateBlockGradient, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, uint8(s))
	}
}

// Estimate computes the motion field between curr and prev over grid g.
//
// Block rows are estimated concurrently; each block writes only its own slot,
// so the result does not depend on scheduling.
func (s Strategy) Estimate(ctx context.Context, curr, prev *frame.Buffer, g Grid, opts Options) (*Field, error) {
	estimate, err := s.blockEstimator()
	if err != nil {
		return nil, err
	}
	if curr == nil || prev == nil {
		return nil, frame.ErrNilBuffer
	}
	if !curr.SameSize(prev) {
		return nil, fmt.Errorf("%w: current %dx%d, previous %dx%d",
			ErrSizeMismatch, curr.Width, curr.Height, prev.Width, prev.Height)
	}
	if !g.Fits(curr.Width, curr.Height) || g.BlockSize <= 0 {
		return nil, fmt.Errorf("%w: grid for %dx%d, frame %dx%d",
			ErrInvalidGrid, g.Width, g.Height, curr.Width, curr.Height)
	}
	opts = opts.withDefaults()

	logrus.WithFields(logrus.Fields{
		"function":     "Strategy.Estimate",
		"strategy":     s.String(),
		"width":        g.Width,
		"height":       g.Height,
		"block_size":   g.BlockSize,
		"search_range": g.SearchRange,
		"blocks":       g.Blocks(),
	}).Debug("Estimating motion field")

	cur := curr.LumaPlane()
	prv := prev.LumaPlane()
	field := NewField(g)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for by := 0; by < g.BlocksY; by++ {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			for bx := 0; bx < g.BlocksX; bx++ {
				field.Vectors[by*g.BlocksX+bx] = estimate(cur, prv, g, bx, by, opts)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("motion estimation cancelled: %w", err)
	}

	return field, nil
}
