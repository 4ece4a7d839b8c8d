package videosource

import (
	"math"

	"gocv.io/x/gocv"
)

// FakeSource is a deterministic in-memory frame generator used by tests
// (spec.md §9: "a deterministic frame generator for VideoSource"). Every
// frame is a solid-color Mat whose brightness is a function of the
// requested timestamp, so tests can assert on exposure deltas without
// decoding a real video file. Solid-color frames have zero sharpness.
type FakeSource struct {
	meta     Metadata
	missingAt map[float64]bool
}

// NewFake builds a FakeSource reporting the given metadata. missingAt marks
// timestamps that should behave like a decode failure (spec.md §7
// DecodeSkip).
func NewFake(meta Metadata, missingAt ...float64) *FakeSource {
	miss := make(map[float64]bool, len(missingAt))
	for _, t := range missingAt {
		miss[t] = true
	}
	return &FakeSource{meta: meta, missingAt: miss}
}

func (f *FakeSource) Metadata() Metadata {
	return f.meta
}

func (f *FakeSource) SeekAndRead(timeSec float64) (gocv.Mat, bool) {
	if timeSec < 0 || timeSec > f.meta.DurationSec+1e-9 {
		return gocv.Mat{}, false
	}
	if f.missingAt[timeSec] {
		return gocv.Mat{}, false
	}

	w, h := f.meta.Width, f.meta.Height
	if w <= 0 {
		w = 64
	}
	if h <= 0 {
		h = 64
	}

	// Deterministic brightness: a sine of the timestamp in seconds (period
	// 2π s, range 32..224), independent of the video's duration.
	level := uint8(math.Round(128 + 96*math.Sin(timeSec)))
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	mat.SetTo(gocv.NewScalar(float64(level), float64(level), float64(level), 0))
	return mat, true
}

func (f *FakeSource) Close() error {
	return nil
}
