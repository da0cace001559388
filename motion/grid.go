package motion

import (
	"fmt"
	"image"

	"github.com/opd-ai/moshbrosh/limits"
)

// Grid describes how a frame is tiled into blocks for estimation and warping.
//
// BlocksX and BlocksY use ceiling division, so the last column and row of
// blocks may be partial. A frame smaller than one block yields a 1x1 grid.
type Grid struct {
	Width       int
	Height      int
	BlockSize   int
	SearchRange int
	BlocksX     int
	BlocksY     int
}

// NewGrid builds the block grid for a width x height frame.
func NewGrid(width, height, blockSize, searchRange int) (Grid, error) {
	if err := limits.ValidateFrameSize(width, height); err != nil {
		return Grid{}, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	if err := limits.ValidateBlockSize(blockSize); err != nil {
		return Grid{}, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	if err := limits.ValidateSearchRange(searchRange); err != nil {
		return Grid{}, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	return Grid{
		Width:       width,
		Height:      height,
		BlockSize:   blockSize,
		SearchRange: searchRange,
		BlocksX:     (width + blockSize - 1) / blockSize,
		BlocksY:     (height + blockSize - 1) / blockSize,
	}, nil
}

// Blocks returns the number of blocks in the grid.
func (g Grid) Blocks() int {
	return g.BlocksX * g.BlocksY
}

// BlockBounds returns the in-frame pixel rectangle of block (bx, by).
func (g Grid) BlockBounds(bx, by int) image.Rectangle {
	x0, y0 := bx*g.BlockSize, by*g.BlockSize
	return image.Rect(x0, y0, min(x0+g.BlockSize, g.Width), min(y0+g.BlockSize, g.Height))
}

// Fits reports whether the grid was built for a width x height frame.
func (g Grid) Fits(width, height int) bool {
	return g.Width == width && g.Height == height
}
