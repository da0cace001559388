package videoio

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/opd-ai/moshbrosh/frame"
)

// PNGSequence is a directory of numbered PNG files, read in lexical order.
type PNGSequence struct {
	Dir string
}

// Frames decodes every *.png file of the directory.
func (s PNGSequence) Frames() ([]*frame.Buffer, error) {
	paths, err := filepath.Glob(filepath.Join(s.Dir, "*.png"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	frames := make([]*frame.Buffer, 0, len(paths))
	for _, p := range paths {
		buf, err := readPNG(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, buf)
	}
	if err := checkSizes(frames); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Dir, err)
	}
	return frames, nil
}

func readPNG(path string) (*frame.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return frame.FromImage(img, frame.TopDown, frame.RGBA)
}

// WriteFrames writes frame_00000.png, frame_00001.png, ... creating the directory.
func (s PNGSequence) WriteFrames(frames []*frame.Buffer) error {
	if err := checkSizes(frames); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	for i, buf := range frames {
		if err := writePNG(filepath.Join(s.Dir, fmt.Sprintf("frame_%05d.png", i)), buf); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path string, buf *frame.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, buf.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
