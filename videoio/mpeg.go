package videoio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/gen2brain/mpeg"

	"github.com/opd-ai/moshbrosh/frame"
)

// MPEGFile is an MPEG-1 program or video stream. Audio is ignored.
type MPEGFile struct {
	Path string
}

// Frames decodes every video frame.
func (m MPEGFile) Frames() ([]*frame.Buffer, error) {
	f, err := os.Open(m.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mpg, err := mpeg.New(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", m.Path, err)
	}
	mpg.SetAudioEnabled(false)

	video := mpg.Video()
	if video == nil {
		return nil, fmt.Errorf("%w: %s has no video stream", ErrUnsupportedFormat, m.Path)
	}

	var frames []*frame.Buffer
	for {
		decoded := video.Decode()
		if decoded == nil {
			break
		}
		// The decoder reuses its frame storage; FromImage copies.
		buf, err := frame.FromImage(decoded.RGBA(), frame.TopDown, frame.RGBA)
		if err != nil {
			return nil, err
		}
		frames = append(frames, buf)
	}
	if err := checkSizes(frames); err != nil {
		return nil, fmt.Errorf("%s: %w", m.Path, err)
	}
	return frames, nil
}
