package ranker

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/internal/metrics"
	"github.com/daverage/yt-thumb/internal/preset"
)

func blankFrame(t float64, score float64) *metrics.FrameMetrics {
	return &metrics.FrameMetrics{
		SampleTime: t,
		Score:      score,
		Analysis:   gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3),
	}
}

func TestSelectGreedyDiversity(t *testing.T) {
	// spec.md §8 S5: times [0,1,3,3.5], scores [1.0,0.9,0.8,0.7],
	// temporalMinGapSec=2, appearanceMinDist=0, K=4 -> selection [0,3].
	frames := []*metrics.FrameMetrics{
		blankFrame(0, 1.0),
		blankFrame(1, 0.9),
		blankFrame(3, 0.8),
		blankFrame(3.5, 0.7),
	}
	defer func() {
		for _, f := range frames {
			f.Analysis.Close()
		}
	}()

	thresholds := preset.Thresholds{TemporalMinGapSec: 2, AppearanceMinDist: 0}
	got := Select(frames, thresholds, 4)

	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].SampleTime != 0 || got[1].SampleTime != 3 {
		t.Errorf("selection = [%v, %v], want [0, 3]", got[0].SampleTime, got[1].SampleTime)
	}
}

func TestSelectBoundsAndNoDuplicates(t *testing.T) {
	frames := []*metrics.FrameMetrics{
		blankFrame(0, 0.5),
		blankFrame(10, 0.9),
		blankFrame(20, 0.1),
	}
	defer func() {
		for _, f := range frames {
			f.Analysis.Close()
		}
	}()

	thresholds := preset.Thresholds{TemporalMinGapSec: 1, AppearanceMinDist: 0}
	got := Select(frames, thresholds, 10)

	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want min(K, |eligible|) = 3", len(got))
	}
	seen := map[float64]bool{}
	for _, f := range got {
		if seen[f.SampleTime] {
			t.Errorf("duplicate frame at t=%v in selection", f.SampleTime)
		}
		seen[f.SampleTime] = true
	}
}

func TestSelectZeroKReturnsEmpty(t *testing.T) {
	frames := []*metrics.FrameMetrics{blankFrame(0, 1.0)}
	defer frames[0].Analysis.Close()

	got := Select(frames, preset.Thresholds{}, 0)
	if len(got) != 0 {
		t.Errorf("len(got) = %d, want 0 for K=0", len(got))
	}
}

func TestSelectRespectsTemporalGap(t *testing.T) {
	frames := []*metrics.FrameMetrics{
		blankFrame(0, 1.0),
		blankFrame(0.5, 0.99),
	}
	defer func() {
		for _, f := range frames {
			f.Analysis.Close()
		}
	}()

	thresholds := preset.Thresholds{TemporalMinGapSec: 2, AppearanceMinDist: 0}
	got := Select(frames, thresholds, 2)

	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1 (second frame blocked by temporal gap)", len(got))
	}
	if got[0].SampleTime != 0 {
		t.Errorf("selected frame at t=%v, want t=0 (higher score)", got[0].SampleTime)
	}
}
