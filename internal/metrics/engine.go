// Package metrics implements the Metrics Engine (spec.md §4.4–§4.6): per
// frame raw metric computation, corpus-wide normalization, final score
// combination, and hard-reject predicates.
package metrics

import (
	"math"

	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/internal/facedetect"
	"github.com/daverage/yt-thumb/internal/imgutil"
	"github.com/daverage/yt-thumb/internal/preset"
)

// Engine is the stateful Metrics Engine. It is not safe for concurrent use
// — the core pipeline is strictly sequential (spec.md §5) — and exclusively
// owns the previous-luma frame used by the Motion metric.
type Engine struct {
	bank          *facedetect.Bank
	definition    preset.Definition
	analysisWidth int

	prevGray gocv.Mat
	hasPrev  bool

	warnings []string
}

// NewEngine constructs a Metrics Engine bound to a face detector bank and a
// preset definition (for overlay zones, overlay penalty power, and hard
// reject thresholds). analysisWidth <= 0 selects the design default.
func NewEngine(bank *facedetect.Bank, definition preset.Definition, analysisWidth int) *Engine {
	if analysisWidth <= 0 {
		analysisWidth = imgutil.DefaultAnalysisWidth
	}
	return &Engine{
		bank:          bank,
		definition:    definition,
		analysisWidth: analysisWidth,
	}
}

// Warnings returns and clears the set of warnings accumulated since the
// last call (spec.md §7's DetectorMissing, surfaced non-fatally).
func (e *Engine) Warnings() []string {
	w := e.warnings
	e.warnings = nil
	return w
}

// Evaluate computes a FrameMetrics for one decoded frame, taking ownership
// of full (the caller must not use or close it afterward — FrameMetrics.Close
// will). It is used both for the main corpus pass and, per spec.md §4.8,
// for neighbor evaluation — the latter perturbs the shared previous-luma
// state, which is an accepted trade-off since neighbors are never
// normalized against the main corpus (spec.md §9).
func (e *Engine) Evaluate(full gocv.Mat, sampleTime, durationSec float64) *FrameMetrics {
	analysis := imgutil.Downscale(full, e.analysisWidth)
	gray := imgutil.ToGray(analysis)
	defer gray.Close()

	faces, warnings := e.bank.Detect(gray, facedetect.Default)
	e.warnings = append(e.warnings, warnings...)

	width, height := analysis.Cols(), analysis.Rows()

	var motionVal float64
	if e.hasPrev {
		motionVal = motion(gray, e.prevGray)
		e.prevGray.Close()
	}
	e.prevGray = gray.Clone()
	e.hasPrev = true

	exposure, contrast := exposureContrast(analysis)

	raw := RawMetrics{
		Sharpness:    sharpness(gray),
		Exposure:     exposure,
		Contrast:     contrast,
		Colorfulness: colorfulness(analysis),
		FaceScore:    faceScore(faces, width, height),
		Centrality:   centrality(faces, width, height),
		Clutter:      clutter(gray, faces),
		OverlaySafe:  overlaySafe(gray, faces, e.definition.OverlayZones, e.definition.ResolvedOverlayPenaltyPower()),
		Motion:       motionVal,
		TimePrior:    timePrior(sampleTime, durationSec),
	}

	return &FrameMetrics{
		SampleTime: sampleTime,
		Full:       full,
		Analysis:   analysis,
		Faces:      faces,
		Raw:        raw,
	}
}

// Normalize independently min-max normalizes each of the ten raw metrics
// across the corpus into [0,1] (spec.md §4.5). It overwrites Normalized on
// every frame and must run exactly once per session, after every frame has
// been evaluated.
func (e *Engine) Normalize(frames []*FrameMetrics) {
	for i := metricIndex(0); i < numMetrics; i++ {
		normalizeOne(frames, i)
	}
}

func normalizeOne(frames []*FrameMetrics, idx metricIndex) {
	if len(frames) == 0 {
		return
	}
	min := frames[0].Raw.get(idx)
	max := min
	for _, f := range frames[1:] {
		v := f.Raw.get(idx)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	rng := math.Max(max-min, 1e-6)
	for _, f := range frames {
		v := f.Raw.get(idx)
		f.Normalized.set(idx, (v-min)/rng)
	}
}

// Combine computes the final weighted score for every frame in the corpus
// (spec.md §4.5). Normalize must have already run.
func (e *Engine) Combine(frames []*FrameMetrics) {
	w := e.definition.Weights
	for _, f := range frames {
		n := f.Normalized
		f.Score = w.Sharp*n.Sharpness +
			w.Exposure*n.Exposure +
			w.Contrast*n.Contrast +
			w.Color*n.Colorfulness +
			w.Face*n.FaceScore +
			w.Centrality*n.Centrality +
			w.Clutter*(1-n.Clutter) +
			w.Overlay*n.OverlaySafe +
			w.Motion*(1-n.Motion) +
			w.Time*n.TimePrior
	}
}

// HardReject reports whether a frame must be excluded before ranking, per
// spec.md §4.6. All tests are against raw values, never normalized ones.
func (e *Engine) HardReject(f *FrameMetrics) bool {
	t := e.definition.Thresholds
	if f.Raw.Sharpness < t.SharpMin {
		return true
	}
	if f.Raw.Exposure < t.Lmin || f.Raw.Exposure > t.Lmax {
		return true
	}
	if e.definition.RequireFace && f.Raw.FaceScore <= 0 {
		return true
	}
	return false
}

// Close releases the engine's owned previous-luma state.
func (e *Engine) Close() {
	if e.hasPrev {
		e.prevGray.Close()
		e.hasPrev = false
	}
}
