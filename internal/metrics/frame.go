package metrics

import (
	"image"

	"gocv.io/x/gocv"
)

// metricIndex enumerates the ten metrics in a fixed order, used internally
// by Normalize to walk the corpus one metric at a time.
type metricIndex int

const (
	idxSharp metricIndex = iota
	idxExposure
	idxContrast
	idxColor
	idxFace
	idxCentrality
	idxClutter
	idxOverlay
	idxMotion
	idxTime
	numMetrics
)

// RawMetrics holds the ten unbounded raw metric values for one frame
// (spec.md §4.4).
type RawMetrics struct {
	Sharpness    float64
	Exposure     float64
	Contrast     float64
	Colorfulness float64
	FaceScore    float64
	Centrality   float64
	Clutter      float64
	OverlaySafe  float64
	Motion       float64
	TimePrior    float64
}

func (r *RawMetrics) get(i metricIndex) float64 {
	switch i {
	case idxSharp:
		return r.Sharpness
	case idxExposure:
		return r.Exposure
	case idxContrast:
		return r.Contrast
	case idxColor:
		return r.Colorfulness
	case idxFace:
		return r.FaceScore
	case idxCentrality:
		return r.Centrality
	case idxClutter:
		return r.Clutter
	case idxOverlay:
		return r.OverlaySafe
	case idxMotion:
		return r.Motion
	case idxTime:
		return r.TimePrior
	}
	return 0
}

// NormalizedMetrics holds the ten [0,1] normalized metric values for one
// frame. Only valid after Engine.Normalize has run over the full corpus
// (spec.md §3 invariant (i)).
type NormalizedMetrics struct {
	Sharpness    float64
	Exposure     float64
	Contrast     float64
	Colorfulness float64
	FaceScore    float64
	Centrality   float64
	Clutter      float64
	OverlaySafe  float64
	Motion       float64
	TimePrior    float64
}

func (n *NormalizedMetrics) set(i metricIndex, v float64) {
	switch i {
	case idxSharp:
		n.Sharpness = v
	case idxExposure:
		n.Exposure = v
	case idxContrast:
		n.Contrast = v
	case idxColor:
		n.Colorfulness = v
	case idxFace:
		n.FaceScore = v
	case idxCentrality:
		n.Centrality = v
	case idxClutter:
		n.Clutter = v
	case idxOverlay:
		n.OverlaySafe = v
	case idxMotion:
		n.Motion = v
	case idxTime:
		n.TimePrior = v
	}
}

// FrameMetrics is one sampled frame's full record (spec.md §3). Full and
// Analysis are owned gocv.Mat buffers released by Close.
type FrameMetrics struct {
	SampleTime float64
	Full       gocv.Mat
	Analysis   gocv.Mat
	Faces      []image.Rectangle

	Raw        RawMetrics
	Normalized NormalizedMetrics
	Score      float64

	savedPath    string
	savedPathSet bool
}

// SetSavedPath records the path a frame's full-resolution image was
// written to. It may be called at most once (spec.md §3 invariant (iii)).
func (f *FrameMetrics) SetSavedPath(path string) {
	if f.savedPathSet {
		panic("metrics: SavedPath already set for this frame")
	}
	f.savedPath = path
	f.savedPathSet = true
}

// SavedPath returns the previously recorded saved path, or "" if none.
func (f *FrameMetrics) SavedPath() string {
	return f.savedPath
}

// Close releases the frame's owned image buffers.
func (f *FrameMetrics) Close() {
	f.Full.Close()
	f.Analysis.Close()
}
