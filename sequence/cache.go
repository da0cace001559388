package sequence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/moshbrosh/chain"
	"github.com/opd-ai/moshbrosh/composite"
	"github.com/opd-ai/moshbrosh/config"
	"github.com/opd-ai/moshbrosh/frame"
	"github.com/opd-ai/moshbrosh/motion"
)

// Options are fixed for the lifetime of a cache. They select how motion is
// estimated but are not part of the parameter snapshot.
type Options struct {
	Strategy motion.Strategy
	Motion   motion.Options
	// Clock times chain runs. Nil uses the system clock.
	Clock chain.Clock
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Configured      bool
	Params          config.Params
	State           AnalysisState
	RawFrames       int
	Outputs         int
	ReferencePinned bool
	Width           int
	Height          int
	RunID           string
	Runs            int
}

// Cache collects raw frames delivered in any order, runs the accumulation
// chain once all inputs of the mosh window are present and serves the
// composited results.
//
// Every exported method holds mu for its entire body, so frames submitted
// and requested from concurrent goroutines observe one consistent snapshot
// and the chain never runs twice for the same parameters. Stored buffers are
// never mutated after insertion.
type Cache struct {
	mu sync.Mutex

	opts       Options
	configured bool
	params     config.Params

	entries   map[int]*frame.Buffer
	reference *frame.Buffer
	width     int
	height    int

	state   AnalysisState
	lastErr error
	runID   string
	runs    int
}

// New creates an unconfigured cache.
func New(opts Options) (*Cache, error) {
	if _, err := opts.Strategy.MarshalText(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "New",
		"strategy": opts.Strategy.String(),
	}).Debug("Creating sequence cache")

	return &Cache{
		opts:    opts,
		entries: make(map[int]*frame.Buffer),
	}, nil
}

// Configure records the parameter snapshot. A snapshot that differs from the
// stored one clears every cached frame, the reference and all outputs, and
// reports invalidated. Invalid parameters are rejected with no state change.
func (c *Cache) Configure(p config.Params) (invalidated bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.configureLocked(p)
}

func (c *Cache) configureLocked(p config.Params) (bool, error) {
	if err := p.Validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Cache.Configure",
			"error":    err.Error(),
		}).Warn("Rejected sequence parameters")
		return false, err
	}
	if c.configured && c.params == p {
		return false, nil
	}

	invalidated := c.configured
	logrus.WithFields(logrus.Fields{
		"function":     "Cache.Configure",
		"mosh_frame":   p.MoshStart,
		"duration":     p.Duration,
		"block_size":   p.BlockSize,
		"search_range": p.SearchRange,
		"invalidated":  invalidated,
		"dropped":      len(c.entries),
	}).Info("Sequence parameters changed")

	c.clearLocked()
	c.params = p
	c.configured = true
	return invalidated, nil
}

// clearLocked drops all cached frames and the established size.
func (c *Cache) clearLocked() {
	c.entries = make(map[int]*frame.Buffer)
	c.reference = nil
	c.width, c.height = 0, 0
	c.state = NotStarted
	c.lastErr = nil
	c.runID = ""
}

// SubmitFrame stores a copy of the raw frame at index. Submitting an index
// that is already cached is a no-op. Frames outside the analysis window are
// not retained. A frame whose size differs from the established one is
// rejected without touching the cache.
func (c *Cache) SubmitFrame(index int, buf *frame.Buffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitLocked(index, buf)
}

func (c *Cache) submitLocked(index int, buf *frame.Buffer) error {
	if !c.configured {
		return ErrNotConfigured
	}
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	if c.width != 0 && (buf.Width != c.width || buf.Height != c.height) {
		logrus.WithFields(logrus.Fields{
			"function": "Cache.SubmitFrame",
			"frame":    index,
			"width":    buf.Width,
			"height":   buf.Height,
			"expected": fmt.Sprintf("%dx%d", c.width, c.height),
		}).Warn("Rejected frame with mismatched dimensions")
		return fmt.Errorf("%w: frame %d is %dx%d, sequence is %dx%d",
			ErrDimensionMismatch, index, buf.Width, buf.Height, c.width, c.height)
	}
	if !c.params.InWindow(index) {
		logrus.WithFields(logrus.Fields{
			"function": "Cache.SubmitFrame",
			"frame":    index,
		}).Debug("Frame outside analysis window, not retained")
		return nil
	}
	if _, ok := c.entries[rawKey(index)]; ok {
		return nil
	}

	stored := buf.Clone()
	c.entries[rawKey(index)] = stored
	c.width, c.height = buf.Width, buf.Height
	if index == c.params.ReferenceIndex() && c.reference == nil {
		c.reference = stored
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Cache.SubmitFrame",
		"frame":     index,
		"reference": c.reference == stored,
	}).Debug("Cached raw frame")
	return nil
}

// TryComplete runs the chain when the reference is pinned and every raw frame
// of the window is cached. It returns true once outputs are available. The
// check is cheap and safe to call repeatedly; the chain runs at most once per
// snapshot. A failed chain leaves the cache Invalid and returns
// ErrAnalysisFailed until the parameters change.
func (c *Cache) TryComplete(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tryCompleteLocked(ctx)
}

func (c *Cache) tryCompleteLocked(ctx context.Context) (bool, error) {
	if !c.configured {
		return false, ErrNotConfigured
	}
	switch c.state {
	case Complete:
		return true, nil
	case Invalid:
		return false, fmt.Errorf("%w: %v", ErrAnalysisFailed, c.lastErr)
	}
	if !c.readyLocked() {
		return false, nil
	}

	c.state = InProgress
	c.runID = uuid.New().String()
	p := chain.Params{
		Params:   c.params,
		Strategy: c.opts.Strategy,
		Motion:   c.opts.Motion,
		RunID:    c.runID,
		Clock:    c.opts.Clock,
	}

	outputs, err := chain.Accumulate(ctx, c.reference, c.rawInput, p)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.state = NotStarted
			return false, err
		}
		c.state = Invalid
		c.lastErr = err
		logrus.WithFields(logrus.Fields{
			"function": "Cache.TryComplete",
			"run_id":   c.runID,
			"error":    err.Error(),
		}).Error("Analysis failed")
		return false, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	for i, out := range outputs {
		c.entries[warpedKey(c.params.MoshStart+i)] = out
	}
	c.state = Complete
	c.runs++
	return true, nil
}

// readyLocked reports whether every input of the window is cached.
func (c *Cache) readyLocked() bool {
	if c.reference == nil {
		return false
	}
	for i := c.params.ReferenceIndex(); i <= c.params.LastIndex(); i++ {
		if _, ok := c.entries[rawKey(i)]; !ok {
			return false
		}
	}
	return true
}

func (c *Cache) rawInput(index int) (*frame.Buffer, bool) {
	buf, ok := c.entries[rawKey(index)]
	return buf, ok
}

// Request returns the frame to display for index. Outside the mosh window the
// original buffer itself is returned. Inside it the chain is attempted, then
// the output is blended over original, or a placeholder is returned while
// inputs are still missing.
func (c *Cache) Request(ctx context.Context, index int, blend float64, original *frame.Buffer) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestLocked(ctx, index, blend, original)
}

func (c *Cache) requestLocked(ctx context.Context, index int, blend float64, original *frame.Buffer) (*Result, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}
	if !(blend >= 0 && blend <= 1) {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidBlend, blend)
	}
	if !c.params.InMoshRange(index) {
		return &Result{Frame: original, Status: Passthrough}, nil
	}
	if err := original.Validate(); err != nil {
		return nil, err
	}

	done, err := c.tryCompleteLocked(ctx)
	if err != nil {
		return nil, err
	}
	if !done {
		return &Result{Frame: composite.Placeholder(original), Status: Placeholder}, nil
	}

	out, err := composite.Blend(original, c.entries[warpedKey(index)], blend)
	if err != nil {
		return nil, err
	}
	return &Result{Frame: out, Status: Composited}, nil
}

// Render configures, submits original as frame index and requests it, all in
// one critical section. It is the single call a host render callback needs.
func (c *Cache) Render(ctx context.Context, p config.Params, index int, blend float64, original *frame.Buffer) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.configureLocked(p); err != nil {
		return nil, err
	}
	if err := c.submitLocked(index, original); err != nil {
		return nil, err
	}
	return c.requestLocked(ctx, index, blend, original)
}

// Output returns a copy of the chain output for index once the cache is
// Complete.
func (c *Cache) Output(index int) (*frame.Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Complete || !c.params.InMoshRange(index) {
		return nil, false
	}
	out, ok := c.entries[warpedKey(index)]
	if !ok {
		return nil, false
	}
	return out.Clone(), true
}

// Reset drops every cached frame and the parameter snapshot.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Cache.Reset",
		"dropped":  len(c.entries),
	}).Info("Resetting sequence cache")

	c.clearLocked()
	c.configured = false
	c.params = config.Params{}
}

// State returns the analysis state.
func (c *Cache) State() AnalysisState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns a snapshot of cache occupancy.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Configured:      c.configured,
		Params:          c.params,
		State:           c.state,
		ReferencePinned: c.reference != nil,
		Width:           c.width,
		Height:          c.height,
		RunID:           c.runID,
		Runs:            c.runs,
	}
	for key := range c.entries {
		if isWarpedKey(key) {
			s.Outputs++
		} else {
			s.RawFrames++
		}
	}
	return s
}
