package moshbrosh

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/moshbrosh/chain"
	"github.com/opd-ai/moshbrosh/config"
	"github.com/opd-ai/moshbrosh/frame"
	"github.com/opd-ai/moshbrosh/sequence"
)

// Options configures a new Engine.
type Options struct {
	// Config supplies the initial parameters and estimator tuning.
	Config config.Config
	// TimeProvider stamps analysis events. Nil uses the system clock.
	TimeProvider TimeProvider
}

// NewOptions returns options with the default configuration.
func NewOptions() *Options {
	return &Options{
		Config:       config.Default(),
		TimeProvider: RealTimeProvider{},
	}
}

// EngineStats extends the cache statistics with request counters.
type EngineStats struct {
	sequence.Stats

	Passthrough int
	Placeholder int
	Composited  int

	// CompletedAt is when completion of the current snapshot was first
	// observed, zero while it is not Complete.
	CompletedAt time.Time
}

// Engine is one datamosh instance owned by its host. Every frame of a clip
// goes through the same Engine; separate clips use separate engines.
type Engine struct {
	cache        *sequence.Cache
	timeProvider TimeProvider

	statsMu      sync.Mutex
	counts       [3]int
	completedRun string
	completedAt  time.Time
}

// New creates an engine configured with options.Config.
func New(options *Options) (*Engine, error) {
	if options == nil {
		options = NewOptions()
	}
	cfg := options.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tp := options.TimeProvider
	if tp == nil {
		tp = RealTimeProvider{}
	}
	e := &Engine{timeProvider: tp}

	cache, err := sequence.New(sequence.Options{
		Strategy: cfg.Strategy,
		Motion:   cfg.MotionOptions(),
		Clock:    chain.ClockFunc(e.now),
	})
	if err != nil {
		return nil, err
	}
	if _, err := cache.Configure(cfg.Params); err != nil {
		return nil, err
	}
	e.cache = cache

	logrus.WithFields(logrus.Fields{
		"function":     "New",
		"mosh_frame":   cfg.MoshStart,
		"duration":     cfg.Duration,
		"block_size":   cfg.BlockSize,
		"search_range": cfg.SearchRange,
		"strategy":     cfg.Strategy.String(),
	}).Info("Created datamosh engine")

	return e, nil
}

// SetTimeProvider replaces the clock used for statistics and chain timing.
func (e *Engine) SetTimeProvider(tp TimeProvider) {
	if tp == nil {
		tp = RealTimeProvider{}
	}
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.timeProvider = tp
}

func (e *Engine) now() time.Time {
	e.statsMu.Lock()
	tp := e.timeProvider
	e.statsMu.Unlock()
	return tp.Now()
}

// Configure replaces the parameter snapshot. It reports whether previously
// cached work was discarded.
func (e *Engine) Configure(p config.Params) (bool, error) {
	return e.cache.Configure(p)
}

// SubmitFrame hands the engine a decoded raw frame.
func (e *Engine) SubmitFrame(index int, buf *frame.Buffer) error {
	return e.cache.SubmitFrame(index, buf)
}

// TryComplete runs the chain if every window frame has been submitted.
func (e *Engine) TryComplete(ctx context.Context) (bool, error) {
	done, err := e.cache.TryComplete(ctx)
	if done {
		e.markComplete()
	}
	return done, err
}

// Request returns the frame to display for index, blended by blend in [0, 1].
func (e *Engine) Request(ctx context.Context, index int, blend float64, original *frame.Buffer) (*sequence.Result, error) {
	res, err := e.cache.Request(ctx, index, blend, original)
	if err != nil {
		return nil, err
	}
	e.record(res.Status)
	return res, nil
}

// Render is the host render callback: it applies the panel values, submits
// original as frame index and returns the frame to display.
func (e *Engine) Render(ctx context.Context, h HostParams, index int, original *frame.Buffer) (*sequence.Result, error) {
	p, blend, err := h.Resolve()
	if err != nil {
		return nil, err
	}
	res, err := e.cache.Render(ctx, p, index, blend, original)
	if err != nil {
		return nil, err
	}
	e.record(res.Status)
	return res, nil
}

// Output returns a copy of the completed chain output for index.
func (e *Engine) Output(index int) (*frame.Buffer, bool) {
	return e.cache.Output(index)
}

// Reset clears all frames and the parameter snapshot.
func (e *Engine) Reset() {
	e.cache.Reset()

	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.counts = [3]int{}
}

// Snapshot captures the persistent engine state.
func (e *Engine) Snapshot() sequence.Snapshot {
	return e.cache.Snapshot()
}

// Restore loads a snapshot taken by Snapshot.
func (e *Engine) Restore(s sequence.Snapshot) error {
	return e.cache.Restore(s)
}

// Stats returns cache occupancy and request counters.
func (e *Engine) Stats() EngineStats {
	s := EngineStats{Stats: e.cache.Stats()}

	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	s.Passthrough = e.counts[sequence.Passthrough]
	s.Placeholder = e.counts[sequence.Placeholder]
	s.Composited = e.counts[sequence.Composited]
	if s.State == sequence.Complete && s.RunID == e.completedRun {
		s.CompletedAt = e.completedAt
	}
	return s
}

func (e *Engine) record(status sequence.RenderStatus) {
	if status == sequence.Composited {
		e.markComplete()
	}
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.counts[status]++
}

// markComplete stamps the first observation of each completed run.
func (e *Engine) markComplete() {
	st := e.cache.Stats()
	if st.State != sequence.Complete {
		return
	}

	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	if st.RunID != e.completedRun {
		e.completedRun = st.RunID
		e.completedAt = e.timeProvider.Now()
	}
}
