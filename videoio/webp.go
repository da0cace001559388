package videoio

import (
	"bufio"
	"fmt"
	"os"
	"time"

	// Registers the VP8/VP8L codecs used by the animation package.
	_ "github.com/deepteams/webp"
	"github.com/deepteams/webp/animation"

	"github.com/opd-ai/moshbrosh/frame"
)

// WebPFile is an animated WebP file.
type WebPFile struct {
	Path string
	// FrameDuration is the display time of each written frame.
	FrameDuration time.Duration
}

// Frames decodes and composites every animation frame onto the canvas.
func (w WebPFile) Frames() ([]*frame.Buffer, error) {
	f, err := os.Open(w.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	anim, err := animation.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", w.Path, err)
	}
	if err := anim.DecodeFramesParallel(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", w.Path, err)
	}

	dec := animation.NewAnimDecoder(anim)
	frames := make([]*frame.Buffer, 0, len(anim.Frames))
	for dec.HasNext() {
		img, _, err := dec.NextFrame()
		if err != nil {
			return nil, fmt.Errorf("decode %s frame %d: %w", w.Path, len(frames), err)
		}
		buf, err := frame.FromImage(img, frame.TopDown, frame.RGBA)
		if err != nil {
			return nil, err
		}
		frames = append(frames, buf)
	}
	if err := checkSizes(frames); err != nil {
		return nil, fmt.Errorf("%s: %w", w.Path, err)
	}
	return frames, nil
}

// WriteFrames encodes frames as a lossless looping animation.
func (w WebPFile) WriteFrames(frames []*frame.Buffer) error {
	if err := checkSizes(frames); err != nil {
		return err
	}
	d := w.FrameDuration
	if d <= 0 {
		d = DefaultFrameDuration
	}

	f, err := os.Create(w.Path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)

	enc := animation.NewEncoder(bw, frames[0].Width, frames[0].Height, &animation.EncodeOptions{
		Lossless: true,
		Quality:  75,
	})
	for i, buf := range frames {
		if err := enc.AddFrame(buf.ToImage(), d); err != nil {
			f.Close()
			return fmt.Errorf("encode %s frame %d: %w", w.Path, i, err)
		}
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", w.Path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
