package pipeline

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/moshbrosh"
	"github.com/opd-ai/moshbrosh/config"
	simtest "github.com/opd-ai/moshbrosh/testing"
	"github.com/opd-ai/moshbrosh/videoio"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func testMoshConfig() config.Config {
	cfg := config.Default()
	cfg.MoshStart = 2
	cfg.Duration = 4
	cfg.BlockSize = 8
	cfg.SearchRange = 4
	return cfg
}

func writeClip(t *testing.T, n int) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "in")
	require.NoError(t, videoio.PNGSequence{Dir: dir}.WriteFrames(simtest.ShiftedSequence(32, 32, n, 2, 0)))
	return dir
}

func newTestRunner(t *testing.T, in, out string, mosh config.Config) (*Runner, *bytes.Buffer) {
	t.Helper()
	var report bytes.Buffer
	cfg := DefaultPipelineConfig()
	cfg.InputPath = in
	cfg.OutputPath = out
	cfg.Mosh = mosh
	cfg.ReportOutput = &report
	return NewRunner(cfg), &report
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusPending, "PENDING"},
		{StatusRunning, "RUNNING"},
		{StatusPassed, "PASSED"},
		{StatusFailed, "FAILED"},
		{StatusSkipped, "SKIPPED"},
		{Status(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.String())
		})
	}
}

func TestNewRunnerNilConfig(t *testing.T) {
	r := NewRunner(nil)
	require.NotNil(t, r)
	assert.Equal(t, StatusPending, r.GetResults().FinalStatus)
	assert.Equal(t, config.Default(), r.config.Mosh)
	assert.Error(t, r.ValidateConfiguration(), "paths are unset")
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PipelineConfig)
		wantErr string
	}{
		{"valid", func(*PipelineConfig) {}, ""},
		{"no input", func(c *PipelineConfig) { c.InputPath = "" }, "input path"},
		{"no output", func(c *PipelineConfig) { c.OutputPath = "" }, "output path"},
		{"zero timeout", func(c *PipelineConfig) { c.OverallTimeout = 0 }, "timeout"},
		{"zero frame duration", func(c *PipelineConfig) { c.FrameDuration = 0 }, "frame duration"},
		{"bad block size", func(c *PipelineConfig) { c.Mosh.BlockSize = 0 }, "block size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPipelineConfig()
			cfg.InputPath = "in"
			cfg.OutputPath = "out"
			tt.mutate(cfg)

			err := NewRunner(cfg).ValidateConfiguration()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunWritesMoshedClip(t *testing.T) {
	in := writeClip(t, 8)
	out := filepath.Join(t.TempDir(), "out")
	r, report := newTestRunner(t, in, out, testMoshConfig())
	r.SetTimeProvider(&stepClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})

	results, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusPassed, results.FinalStatus)
	assert.Equal(t, 8, results.FramesRead)
	assert.Equal(t, 4, results.FramesMoshed)
	assert.Equal(t, 8, results.FramesWritten)
	require.Len(t, results.Steps, 4)
	for i, name := range []string{PassRead, PassAdjust, PassMosh, PassWrite} {
		assert.Equal(t, name, results.Steps[i].StepName)
		assert.Equal(t, StatusPassed, results.Steps[i].Status)
		assert.Equal(t, time.Second, results.Steps[i].ExecutionTime)
	}
	assert.Equal(t, 32, results.Steps[0].Metrics["width"])
	assert.Contains(t, report.String(), "Overall Status: PASSED")

	source, err := videoio.ReadAll(in)
	require.NoError(t, err)
	want, err := moshbrosh.RunBatch(context.Background(), source, testMoshConfig())
	require.NoError(t, err)

	got, err := videoio.ReadAll(out)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "frame %d", i)
	}
}

func TestRunAdjustsWindowToClip(t *testing.T) {
	in := writeClip(t, 8)
	out := filepath.Join(t.TempDir(), "out")
	mosh := testMoshConfig()
	mosh.MoshStart = 10
	mosh.Duration = 30
	r, _ := newTestRunner(t, in, out, mosh)

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.Params{MoshStart: 1, Duration: 7, BlockSize: 8, SearchRange: 4}, results.Adjusted)
	assert.Equal(t, 8, results.FramesWritten)
}

func TestRunFailureSkipsRemainingPasses(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	r, report := newTestRunner(t, missing, filepath.Join(t.TempDir(), "out"), testMoshConfig())

	results, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read frames")

	assert.Equal(t, StatusFailed, results.FinalStatus)
	assert.NotEmpty(t, results.ErrorDetails)
	require.Len(t, results.Steps, 4)
	assert.Equal(t, StatusFailed, results.Steps[0].Status)
	for _, step := range results.Steps[1:] {
		assert.Equal(t, StatusSkipped, step.Status, step.StepName)
	}
	assert.Contains(t, report.String(), "Overall Status: FAILED")
}

func TestRunUnsupportedOutput(t *testing.T) {
	in := writeClip(t, 6)
	out := filepath.Join(t.TempDir(), "out.mp4")
	r, _ := newTestRunner(t, in, out, testMoshConfig())

	results, err := r.Run(context.Background())
	require.ErrorIs(t, err, videoio.ErrUnsupportedFormat)
	assert.Equal(t, StatusFailed, results.Steps[3].Status)
	assert.Equal(t, 6, results.FramesRead)
	assert.Zero(t, results.FramesWritten)
}

func TestRunCancelled(t *testing.T) {
	in := writeClip(t, 6)
	r, _ := newTestRunner(t, in, filepath.Join(t.TempDir(), "out"), testMoshConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results.Steps, 4)
	for _, step := range results.Steps {
		assert.Equal(t, StatusSkipped, step.Status)
	}
}

func TestRunTwiceStartsFresh(t *testing.T) {
	in := writeClip(t, 6)
	missing := filepath.Join(t.TempDir(), "missing")
	r, _ := newTestRunner(t, missing, filepath.Join(t.TempDir(), "out"), testMoshConfig())

	first, err := r.Run(context.Background())
	require.Error(t, err)
	require.Len(t, first.Steps, 4)

	r.config.InputPath = in
	second, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusPassed, second.FinalStatus)
	assert.Empty(t, second.ErrorDetails)
	require.Len(t, second.Steps, 4)
	for _, step := range second.Steps {
		assert.Equal(t, StatusPassed, step.Status, step.StepName)
	}
	assert.Same(t, second, r.GetResults())

	assert.Equal(t, StatusFailed, first.FinalStatus, "earlier results untouched")
	assert.Len(t, first.Steps, 4)
}
