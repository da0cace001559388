package sequence

import (
	"fmt"

	"github.com/opd-ai/moshbrosh/frame"
)

// AnalysisState is the lifecycle of one parameter snapshot.
//
//	NotStarted -> InProgress -> Complete
//	                         \-> Invalid
//
// A parameter change returns any state to NotStarted.
type AnalysisState uint8

const (
	// NotStarted means no chain has run for the current snapshot.
	NotStarted AnalysisState = iota
	// InProgress means the chain is running.
	InProgress
	// Complete means every output of the mosh window is cached.
	Complete
	// Invalid means the chain failed for the current snapshot.
	Invalid
)

// String returns a string representation of the analysis state.
func (s AnalysisState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Complete:
		return "complete"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("AnalysisState(%d)", uint8(s))
	}
}

// RenderStatus tells the caller which kind of frame a request produced.
type RenderStatus uint8

const (
	// Passthrough means the index lies outside the mosh window and the
	// original frame was returned unchanged.
	Passthrough RenderStatus = iota
	// Placeholder means the chain is not ready yet; the frame is a marker.
	Placeholder
	// Composited means the frame is chain output blended over the original.
	Composited
)

// String returns a string representation of the render status.
func (s RenderStatus) String() string {
	switch s {
	case Passthrough:
		return "passthrough"
	case Placeholder:
		return "placeholder"
	case Composited:
		return "composited"
	default:
		return fmt.Sprintf("RenderStatus(%d)", uint8(s))
	}
}

// Result is the answer to a frame request.
type Result struct {
	Frame  *frame.Buffer
	Status RenderStatus
}
