// Package preset holds the read-only data model a caller feeds into the
// pipeline. This package only defines the shape: loading a preset file is
// done by cmd/ytthumb, and no merging or inline weight overrides are
// implemented.
package preset

// SamplingMode selects how Value is interpreted when a session does not
// supply an explicit sample rate.
type SamplingMode string

const (
	ModeFPS SamplingMode = "fps"
	ModeFPM SamplingMode = "fpm"
)

// SamplingPolicy describes the preset's preferred sample rate, before any
// session-level override.
type SamplingPolicy struct {
	Mode  SamplingMode
	Value float64
}

// Thresholds carries the hard-reject gates and diversity constraints used by
// the Metrics Engine and Candidate Ranker.
type Thresholds struct {
	SharpMin           float64
	Lmin               float64
	Lmax               float64
	TemporalMinGapSec  float64
	AppearanceMinDist  float64
}

// Weights is the ten-term linear combination used by the Metrics Engine to
// produce a frame's final score. Units are pass-through: no renormalization
// is performed on these values.
type Weights struct {
	Sharp       float64
	Exposure    float64
	Contrast    float64
	Color       float64
	Face        float64
	Centrality  float64
	Clutter     float64
	Overlay     float64
	Motion      float64
	Time        float64
}

// OverlayZone is a rectangle in normalized [0,1]x[0,1] image coordinates
// used to penalize frames whose content would collide with a planned
// overlay region (lower-third caption, logo bug, etc).
type OverlayZone struct {
	X float64
	Y float64
	W float64
	H float64
}

// DefaultOverlayPenaltyPower is a design constant (spec.md §9), not a tuning
// knob; Definition.OverlayPenaltyPower overrides it when > 0 so tests can
// exercise non-default values without threading a second parameter through
// every call site.
const DefaultOverlayPenaltyPower = 1.0

// Definition is the complete, read-only input a session evaluates frames
// against.
type Definition struct {
	Name               string
	RequireFace        bool
	Sampling           SamplingPolicy
	Weights            Weights
	Thresholds         Thresholds
	OverlayZones       []OverlayZone
	OverlayPenaltyPower float64
}

// ResolvedOverlayPenaltyPower returns the preset's configured overlay
// penalty power, or the design default if unset (zero value).
func (d Definition) ResolvedOverlayPenaltyPower() float64 {
	if d.OverlayPenaltyPower <= 0 {
		return DefaultOverlayPenaltyPower
	}
	return d.OverlayPenaltyPower
}
