package pipeline

import (
	"fmt"

	"github.com/daverage/yt-thumb/internal/neighbor"
	"github.com/daverage/yt-thumb/internal/preset"
)

// SessionOptions is every caller-supplied input to a Session (spec.md §6).
type SessionOptions struct {
	InputPath string
	OutputDir string
	Preset    preset.Definition

	TopK          int
	NeighborCount int

	// NeighborOffsets overrides the default {±1,…,±NeighborCount} set when
	// non-nil (spec.md §4.8).
	NeighborOffsets []int

	// SampleRateHz overrides the preset's sampling policy when > 0
	// (spec.md §6).
	SampleRateHz float64
}

// Validate checks the ConfigInvalid gates (spec.md §7). It must be called
// before Session.Run does any I/O.
func (o SessionOptions) Validate() error {
	if o.InputPath == "" {
		return newError(ErrConfigInvalid, fmt.Errorf("input path is required"))
	}
	if o.OutputDir == "" {
		return newError(ErrConfigInvalid, fmt.Errorf("output directory is required"))
	}
	if o.TopK <= 0 {
		return newError(ErrConfigInvalid, fmt.Errorf("top K must be > 0, got %d", o.TopK))
	}
	if o.NeighborCount < 0 {
		return newError(ErrConfigInvalid, fmt.Errorf("neighbor count must be >= 0, got %d", o.NeighborCount))
	}
	if o.SampleRateHz < 0 {
		return newError(ErrConfigInvalid, fmt.Errorf("sample rate must be positive when set, got %v", o.SampleRateHz))
	}
	return nil
}

// ResolveSampleRate implements spec.md §6/§9's fallback chain: an explicit
// session override wins; otherwise the preset's sampling policy (fps used
// as-is, fpm divided by 60); otherwise min(video fps, 2.0).
func ResolveSampleRate(p preset.Definition, override, videoFPS float64) float64 {
	if override > 0 {
		return override
	}
	switch p.Sampling.Mode {
	case preset.ModeFPS:
		return p.Sampling.Value
	case preset.ModeFPM:
		return p.Sampling.Value / 60.0
	default:
		if videoFPS < 2.0 {
			return videoFPS
		}
		return 2.0
	}
}

// resolveOffsets returns the session's explicit neighbor offsets, or the
// default set for NeighborCount (spec.md §4.8).
func resolveOffsets(o SessionOptions) []int {
	if o.NeighborOffsets != nil {
		return o.NeighborOffsets
	}
	return neighbor.DefaultOffsets(o.NeighborCount)
}
