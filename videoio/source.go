package videoio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/moshbrosh/frame"
)

// Source yields every decoded frame of a clip in display order.
type Source interface {
	Frames() ([]*frame.Buffer, error)
}

// Sink writes a sequence of frames.
type Sink interface {
	WriteFrames(frames []*frame.Buffer) error
}

// DefaultFrameDuration is used for animated outputs when the input carries no timing.
const DefaultFrameDuration = 40 * time.Millisecond

// Open picks a Source for path: a directory of PNG files, an animated WebP
// file or an MPEG-1 stream.
func Open(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return PNGSequence{Dir: path}, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return WebPFile{Path: path}, nil
	case ".mpg", ".mpeg", ".m1v":
		return MPEGFile{Path: path}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Create picks a Sink for path. Paths ending in .webp become an animated
// lossless WebP; anything without an extension is a PNG directory.
func Create(path string, frameDuration time.Duration) (Sink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return WebPFile{Path: path, FrameDuration: frameDuration}, nil
	case "":
		return PNGSequence{Dir: path}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ReadAll opens path and decodes every frame.
func ReadAll(path string) ([]*frame.Buffer, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	frames, err := src.Frames()
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "ReadAll",
		"path":     path,
		"frames":   len(frames),
		"width":    frames[0].Width,
		"height":   frames[0].Height,
	}).Info("Read frames")
	return frames, nil
}

// checkSizes verifies every frame matches the first.
func checkSizes(frames []*frame.Buffer) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	for i, f := range frames {
		if f == nil {
			return fmt.Errorf("frame %d: %w", i, frame.ErrNilBuffer)
		}
		if !f.SameSize(frames[0]) {
			return fmt.Errorf("%w: frame %d is %dx%d, frame 0 is %dx%d",
				ErrInconsistentSize, i, f.Width, f.Height, frames[0].Width, frames[0].Height)
		}
	}
	return nil
}
