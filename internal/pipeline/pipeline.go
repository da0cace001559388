package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/moshbrosh"
	"github.com/opd-ai/moshbrosh/config"
	"github.com/opd-ai/moshbrosh/frame"
	"github.com/opd-ai/moshbrosh/videoio"
)

// Pass names, in execution order.
const (
	PassRead   = "Read frames"
	PassAdjust = "Adjust parameters"
	PassMosh   = "Mosh"
	PassWrite  = "Write frames"
)

// Runner drives the four batch passes over one clip.
type Runner struct {
	config       *PipelineConfig
	logger       *log.Logger
	timeProvider moshbrosh.TimeProvider
	startTime    time.Time
	results      *PipelineResults
}

// PipelineConfig holds everything one batch run needs.
type PipelineConfig struct {
	// I/O
	InputPath     string
	OutputPath    string
	FrameDuration time.Duration

	// Engine settings, adjusted to the clip length before moshing.
	Mosh config.Config

	// Execution
	OverallTimeout time.Duration
	VerboseOutput  bool

	// Report output; stdout when nil.
	ReportOutput io.Writer
}

// PipelineResults holds the outcome of a run.
type PipelineResults struct {
	FramesRead    int
	FramesMoshed  int
	FramesWritten int
	Adjusted      config.Params
	ExecutionTime time.Duration
	Steps         []StepResult
	FinalStatus   Status
	ErrorDetails  string
}

// StepResult is the outcome of one pass.
type StepResult struct {
	StepName      string
	Status        Status
	ExecutionTime time.Duration
	ErrorMessage  string
	Metrics       map[string]interface{}
}

// Status of a run or pass.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusPassed
	StatusFailed
	StatusSkipped
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusRunning:
		return "RUNNING"
	case StatusPassed:
		return "PASSED"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// DefaultPipelineConfig returns the stock settings with no paths set.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		FrameDuration:  videoio.DefaultFrameDuration,
		Mosh:           config.Default(),
		OverallTimeout: 30 * time.Minute,
		VerboseOutput:  true,
	}
}

// NewRunner creates a runner. A nil config selects DefaultPipelineConfig.
func NewRunner(cfg *PipelineConfig) *Runner {
	if cfg == nil {
		cfg = DefaultPipelineConfig()
	}

	logger := log.New(os.Stdout, "", 0)
	if cfg.ReportOutput != nil {
		logger.SetOutput(cfg.ReportOutput)
	}

	return &Runner{
		config:       cfg,
		logger:       logger,
		timeProvider: moshbrosh.RealTimeProvider{},
		results:      newResults(),
	}
}

func newResults() *PipelineResults {
	return &PipelineResults{
		Steps:       make([]StepResult, 0, 4),
		FinalStatus: StatusPending,
	}
}

// SetTimeProvider replaces the clock used for pass timings.
func (r *Runner) SetTimeProvider(tp moshbrosh.TimeProvider) {
	if tp == nil {
		tp = moshbrosh.RealTimeProvider{}
	}
	r.timeProvider = tp
}

// ValidateConfiguration checks the run settings before any I/O happens.
func (r *Runner) ValidateConfiguration() error {
	if r.config.InputPath == "" {
		return fmt.Errorf("input path cannot be empty")
	}
	if r.config.OutputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if r.config.OverallTimeout <= 0 {
		return fmt.Errorf("overall timeout must be positive")
	}
	if r.config.FrameDuration <= 0 {
		return fmt.Errorf("frame duration must be positive")
	}
	return r.config.Mosh.Validate()
}

// Run executes read, adjust, mosh and write. A failed pass skips the rest.
// Each call starts from fresh results; results of an earlier call are not
// modified.
func (r *Runner) Run(ctx context.Context) (*PipelineResults, error) {
	r.results = newResults()
	r.startTime = r.timeProvider.Now()
	r.results.FinalStatus = StatusRunning

	r.logger.Println("📼 MoshBrosh batch run")
	r.logger.Println("======================")
	if r.config.VerboseOutput {
		r.logConfiguration()
	}

	runCtx, cancel := context.WithTimeout(ctx, r.config.OverallTimeout)
	defer cancel()

	err := r.executePasses(runCtx)

	r.results.ExecutionTime = r.timeProvider.Now().Sub(r.startTime)
	if err != nil {
		r.results.FinalStatus = StatusFailed
		r.results.ErrorDetails = err.Error()
	} else {
		r.results.FinalStatus = StatusPassed
	}

	r.generateFinalReport()
	return r.results, err
}

type pass struct {
	name string
	run  func(metrics map[string]interface{}) error
}

func (r *Runner) executePasses(ctx context.Context) error {
	var (
		frames []*frame.Buffer
		cfg    config.Config
		out    []*frame.Buffer
	)

	passes := []pass{
		{PassRead, func(m map[string]interface{}) error {
			var err error
			frames, err = videoio.ReadAll(r.config.InputPath)
			if err != nil {
				return err
			}
			r.results.FramesRead = len(frames)
			m["frames"] = len(frames)
			m["width"] = frames[0].Width
			m["height"] = frames[0].Height
			return nil
		}},
		{PassAdjust, func(m map[string]interface{}) error {
			var err error
			cfg, err = r.config.Mosh.AdjustToLength(len(frames))
			if err != nil {
				return err
			}
			r.results.Adjusted = cfg.Params
			m["mosh_frame"] = cfg.MoshStart
			m["duration"] = cfg.Duration
			return nil
		}},
		{PassMosh, func(m map[string]interface{}) error {
			var err error
			out, err = moshbrosh.RunBatchObserved(ctx, frames, cfg, r.observeStep)
			if err != nil {
				return err
			}
			r.results.FramesMoshed = cfg.Duration
			m["moshed"] = cfg.Duration
			return nil
		}},
		{PassWrite, func(m map[string]interface{}) error {
			sink, err := videoio.Create(r.config.OutputPath, r.config.FrameDuration)
			if err != nil {
				return err
			}
			if err := sink.WriteFrames(out); err != nil {
				return err
			}
			r.results.FramesWritten = len(out)
			m["frames"] = len(out)
			r.logDigests(out)
			return nil
		}},
	}

	for i, p := range passes {
		if err := ctx.Err(); err != nil {
			r.skipRemaining(passes[i:])
			return err
		}
		if err := r.executeWithStepTracking(p.name, p.run); err != nil {
			r.skipRemaining(passes[i+1:])
			return fmt.Errorf("%s: %w", strings.ToLower(p.name), err)
		}
	}
	return nil
}

func (r *Runner) skipRemaining(passes []pass) {
	for _, p := range passes {
		r.results.Steps = append(r.results.Steps, StepResult{
			StepName: p.name,
			Status:   StatusSkipped,
			Metrics:  make(map[string]interface{}),
		})
	}
}

// executeWithStepTracking runs one pass and records its result.
func (r *Runner) executeWithStepTracking(stepName string, operation func(map[string]interface{}) error) error {
	stepStart := r.timeProvider.Now()
	r.logger.Printf("🎯 Executing: %s", stepName)

	stepResult := StepResult{
		StepName: stepName,
		Status:   StatusRunning,
		Metrics:  make(map[string]interface{}),
	}

	err := operation(stepResult.Metrics)
	stepResult.ExecutionTime = r.timeProvider.Now().Sub(stepStart)

	if err != nil {
		stepResult.Status = StatusFailed
		stepResult.ErrorMessage = err.Error()
		r.logger.Printf("❌ %s failed: %v", stepName, err)
	} else {
		stepResult.Status = StatusPassed
		r.logger.Printf("✅ %s completed in %v", stepName, stepResult.ExecutionTime)
	}

	r.results.Steps = append(r.results.Steps, stepResult)
	return err
}

func (r *Runner) observeStep(step moshbrosh.BatchStep) {
	logrus.WithFields(logrus.Fields{
		"function":       "Runner.observeStep",
		"frame":          step.Index,
		"mean_magnitude": step.Stats.MeanMagnitude,
		"max_magnitude":  step.Stats.MaxMagnitude,
		"static":         step.Stats.StaticFraction,
	}).Debug("Chain step complete")
}

func (r *Runner) logDigests(out []*frame.Buffer) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	for i, buf := range out {
		logrus.WithFields(logrus.Fields{
			"function": "Runner.logDigests",
			"frame":    i,
			"digest":   buf.DigestHex(),
		}).Debug("Output frame")
	}
}

func (r *Runner) logConfiguration() {
	m := r.config.Mosh
	r.logger.Println("📋 Run Configuration:")
	r.logger.Printf("   Input: %s", r.config.InputPath)
	r.logger.Printf("   Output: %s", r.config.OutputPath)
	r.logger.Printf("   Mosh frame: %d", m.MoshStart)
	r.logger.Printf("   Duration: %d", m.Duration)
	r.logger.Printf("   Block size: %d", m.BlockSize)
	r.logger.Printf("   Search range: %d", m.SearchRange)
	r.logger.Printf("   Blend: %.0f%%", m.Blend*100)
	r.logger.Printf("   Strategy: %s", m.Strategy)
	r.logger.Println()
}

func (r *Runner) generateFinalReport() {
	r.logger.Println()
	r.logger.Println("📊 Run Summary")
	r.logger.Println("==============")
	r.logger.Printf("🎯 Overall Status: %s", r.results.FinalStatus)
	r.logger.Printf("⏱️  Total Execution Time: %v", r.results.ExecutionTime)
	r.logger.Printf("🎞️  Frames: %d read, %d moshed, %d written",
		r.results.FramesRead, r.results.FramesMoshed, r.results.FramesWritten)

	for _, step := range r.results.Steps {
		r.logger.Printf("   %s %s (%v)", statusIcon(step.Status), step.StepName, step.ExecutionTime)
		if step.ErrorMessage != "" {
			r.logger.Printf("      Error: %s", step.ErrorMessage)
		}
	}
	r.logger.Println(strings.Repeat("=", 50))
}

func statusIcon(status Status) string {
	switch status {
	case StatusFailed:
		return "❌"
	case StatusSkipped:
		return "⏭️"
	default:
		return "✅"
	}
}

// GetResults returns the results recorded so far.
func (r *Runner) GetResults() *PipelineResults {
	return r.results
}
