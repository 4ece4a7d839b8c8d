// Package ranker implements the Candidate Ranker (spec.md §4.7): greedy
// top-K selection over scored frames under temporal and appearance
// diversity constraints.
package ranker

import (
	"math"
	"sort"

	"github.com/daverage/yt-thumb/internal/metrics"
	"github.com/daverage/yt-thumb/internal/preset"
)

// Select returns up to k frames from eligible (already hard-rejection
// filtered), sorted by descending score with ties broken by earlier sample
// time, accepting a candidate only if it is diverse from every
// already-accepted frame under thresholds.TemporalMinGapSec and
// thresholds.AppearanceMinDist. The returned slice is a subset of eligible
// in selection order, not sample-time order.
func Select(eligible []*metrics.FrameMetrics, thresholds preset.Thresholds, k int) []*metrics.FrameMetrics {
	if k <= 0 || len(eligible) == 0 {
		return nil
	}

	sorted := make([]*metrics.FrameMetrics, len(eligible))
	copy(sorted, eligible)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].SampleTime < sorted[j].SampleTime
	})

	selected := make([]*metrics.FrameMetrics, 0, k)
	for _, candidate := range sorted {
		if len(selected) >= k {
			break
		}
		if isDiverseFromAll(candidate, selected, thresholds) {
			selected = append(selected, candidate)
		}
	}
	return selected
}

func isDiverseFromAll(candidate *metrics.FrameMetrics, accepted []*metrics.FrameMetrics, thresholds preset.Thresholds) bool {
	for _, existing := range accepted {
		if math.Abs(candidate.SampleTime-existing.SampleTime) < thresholds.TemporalMinGapSec {
			return false
		}
		dist := appearanceDistance(candidate.Analysis, existing.Analysis, candidate.Faces, existing.Faces)
		if dist < thresholds.AppearanceMinDist {
			return false
		}
	}
	return true
}
