package moshbrosh

import (
	"fmt"

	"github.com/opd-ai/moshbrosh/config"
	"github.com/opd-ai/moshbrosh/limits"
)

// HostParams are the raw control values of a host effect panel: a block size
// popup, a blend slider in percent and integer sliders with host ranges.
type HostParams struct {
	MoshFrame      int
	Duration       int
	BlockSizeIndex int
	SearchRange    int
	BlendPercent   float64
}

// DefaultHostParams returns the panel defaults.
func DefaultHostParams() HostParams {
	return HostParams{
		MoshFrame:      10,
		Duration:       30,
		BlockSizeIndex: 2,
		SearchRange:    16,
		BlendPercent:   100,
	}
}

// Resolve validates the panel values against the host slider ranges and
// converts them to sequence parameters and a blend factor.
func (h HostParams) Resolve() (config.Params, float64, error) {
	if err := limits.ValidateRange("mosh frame", h.MoshFrame, limits.HostMoshFrameMin, limits.HostMoshFrameMax); err != nil {
		return config.Params{}, 0, fmt.Errorf("%w: %v", config.ErrInvalidMoshStart, err)
	}
	if err := limits.ValidateRange("duration", h.Duration, limits.HostDurationMin, limits.HostDurationMax); err != nil {
		return config.Params{}, 0, fmt.Errorf("%w: %v", config.ErrInvalidDuration, err)
	}
	if err := limits.ValidateRange("search range", h.SearchRange, limits.HostSearchRangeMin, limits.HostSearchRangeMax); err != nil {
		return config.Params{}, 0, fmt.Errorf("%w: %v", config.ErrInvalidSearchRange, err)
	}
	if !(h.BlendPercent >= limits.HostBlendMin && h.BlendPercent <= limits.HostBlendMax) {
		return config.Params{}, 0, fmt.Errorf("%w: %v%%", config.ErrInvalidBlend, h.BlendPercent)
	}
	blend, err := config.BlendFromPercent(h.BlendPercent)
	if err != nil {
		return config.Params{}, 0, err
	}

	p := config.Params{
		MoshStart:   h.MoshFrame,
		Duration:    h.Duration,
		BlockSize:   config.BlockSizeFromIndex(h.BlockSizeIndex),
		SearchRange: h.SearchRange,
	}
	if err := p.Validate(); err != nil {
		return config.Params{}, 0, err
	}
	return p, blend, nil
}
