// Package neighbor implements the Neighbor Fetcher (spec.md §4.8): for each
// selected candidate, re-seek and evaluate the frames at a set of signed
// sample-interval offsets around it.
package neighbor

import (
	"sort"

	"github.com/daverage/yt-thumb/internal/metrics"
	"github.com/daverage/yt-thumb/internal/videosource"
)

// DefaultOffsets generates the default neighbor offset set {±1, …, ±n}
// ordered by absolute value ascending, then signed value ascending
// (spec.md §4.8; §8 property 7).
func DefaultOffsets(n int) []int {
	if n <= 0 {
		return nil
	}
	offsets := make([]int, 0, 2*n)
	for k := 1; k <= n; k++ {
		offsets = append(offsets, -k, k)
	}
	sort.Slice(offsets, func(i, j int) bool {
		ai, aj := absInt(offsets[i]), absInt(offsets[j])
		if ai != aj {
			return ai < aj
		}
		return offsets[i] < offsets[j]
	})
	return offsets
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Frame is one fetched neighbor: its signed offset (in sample intervals)
// and the frame's single-frame-evaluated metrics.
type Frame struct {
	Offset  int
	Metrics *metrics.FrameMetrics
}

// CandidateNeighbors groups a selected candidate with its fetched
// neighbors, sorted by offset ascending (spec.md §4.8).
type CandidateNeighbors struct {
	Candidate *metrics.FrameMetrics
	Neighbors []Frame
}

// FetchAll runs Fetch for every candidate, using the offsets ordered
// ascending regardless of the order they were supplied in.
func FetchAll(source videosource.Source, engine *metrics.Engine, candidates []*metrics.FrameMetrics, durationSec, sampleRate float64, offsets []int) []CandidateNeighbors {
	sortedOffsets := make([]int, len(offsets))
	copy(sortedOffsets, offsets)
	sort.Ints(sortedOffsets)

	out := make([]CandidateNeighbors, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, CandidateNeighbors{
			Candidate: c,
			Neighbors: Fetch(source, engine, c.SampleTime, durationSec, sampleRate, sortedOffsets),
		})
	}
	return out
}

// Fetch computes the neighbor frames of one candidate at candidateTime, at
// each offset in offsets (in sample intervals of 1/sampleRate seconds).
// Offsets whose resolved timestamp is negative, or whose seek-and-read
// fails, are silently skipped (spec.md §7 DecodeSkip) — never treated as an
// error. Each surviving frame is evaluated through engine's single-frame
// path, which shares and perturbs the engine's previous-luma motion state
// (spec.md §4.8, §9 — an accepted trade-off since neighbors are never
// normalized against the main corpus).
func Fetch(source videosource.Source, engine *metrics.Engine, candidateTime, durationSec, sampleRate float64, offsets []int) []Frame {
	interval := 1.0 / maxFloat(sampleRate, 1e-6)

	results := make([]Frame, 0, len(offsets))
	for _, o := range offsets {
		t := candidateTime + float64(o)*interval
		if t < 0 {
			continue
		}
		frame, ok := source.SeekAndRead(t)
		if !ok {
			continue
		}
		fm := engine.Evaluate(frame, t, durationSec)
		results = append(results, Frame{Offset: o, Metrics: fm})
	}
	return results
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
