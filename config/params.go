package config

import (
	"fmt"

	"github.com/opd-ai/moshbrosh/limits"
)

// Params is the parameter snapshot a sequence is analysed under. Any change
// to a field invalidates previously computed outputs.
type Params struct {
	MoshStart   int `yaml:"mosh_frame"`
	Duration    int `yaml:"duration"`
	BlockSize   int `yaml:"block_size"`
	SearchRange int `yaml:"search_range"`
}

// Validate checks the parameter domain. Block sizes are not restricted to the
// host popup values; any positive size up to limits.MaxBlockSize is accepted.
func (p Params) Validate() error {
	if err := limits.ValidateMoshStart(p.MoshStart); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMoshStart, err)
	}
	if err := limits.ValidateDuration(p.Duration); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, err)
	}
	if err := limits.ValidateBlockSize(p.BlockSize); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBlockSize, err)
	}
	if err := limits.ValidateSearchRange(p.SearchRange); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSearchRange, err)
	}
	return nil
}

// ReferenceIndex is the frame the chain is seeded from, clamped to 0 when the
// mosh starts at the first frame.
func (p Params) ReferenceIndex() int {
	return max(p.MoshStart-1, 0)
}

// FirstIndex is the first moshed frame.
func (p Params) FirstIndex() int {
	return p.MoshStart
}

// LastIndex is the last moshed frame.
func (p Params) LastIndex() int {
	return p.MoshStart + p.Duration - 1
}

// InMoshRange reports whether index is replaced by chain output.
func (p Params) InMoshRange(index int) bool {
	return index >= p.FirstIndex() && index <= p.LastIndex()
}

// InWindow reports whether the raw frame at index is an input to the chain.
func (p Params) InWindow(index int) bool {
	return index >= p.ReferenceIndex() && index <= p.LastIndex()
}

// WindowSize is the number of raw frames the chain consumes.
func (p Params) WindowSize() int {
	return p.LastIndex() - p.ReferenceIndex() + 1
}

// BlockSizeFromIndex maps the host block size popup (1-based) to pixels.
// Unknown entries fall back to 16.
func BlockSizeFromIndex(index int) int {
	switch index {
	case 1:
		return 8
	case 2:
		return 16
	case 3:
		return 32
	default:
		return 16
	}
}

// BlendFromPercent converts a host slider value in [0, 100] to a blend factor.
func BlendFromPercent(percent float64) (float64, error) {
	if err := limits.ValidateBlend(percent / 100); err != nil {
		return 0, fmt.Errorf("%w: %v%%", ErrInvalidBlend, percent)
	}
	return percent / 100, nil
}
