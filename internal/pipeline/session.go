// Package pipeline implements the Pipeline Session (spec.md §4.9): it
// orchestrates the Video Source, Face Detector Bank, Metrics Engine,
// Candidate Ranker, Neighbor Fetcher, and Manifest Writer into one run.
package pipeline

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/daverage/yt-thumb/internal/facedetect"
	"github.com/daverage/yt-thumb/internal/manifest"
	"github.com/daverage/yt-thumb/internal/metrics"
	"github.com/daverage/yt-thumb/internal/neighbor"
	"github.com/daverage/yt-thumb/internal/ranker"
	"github.com/daverage/yt-thumb/internal/sampler"
	"github.com/daverage/yt-thumb/internal/videosource"
)

// VideoOpener opens a video source by path. Production code uses
// videosource.Open; tests substitute a fake-returning opener.
type VideoOpener func(path string) (videosource.Source, error)

func defaultOpener(path string) (videosource.Source, error) {
	return videosource.Open(path)
}

// Session runs one end-to-end pipeline pass (spec.md §4.9).
type Session struct {
	Options  SessionOptions
	Bank     *facedetect.Bank
	Progress ProgressReporter
	Opener   VideoOpener
}

// NewSession constructs a Session. reporter may be nil, in which case
// progress events are discarded.
func NewSession(opts SessionOptions, bank *facedetect.Bank, reporter ProgressReporter) *Session {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Session{
		Options:  opts,
		Bank:     bank,
		Progress: reporter,
		Opener:   defaultOpener,
	}
}

// Run executes the full pipeline: open, sample, score, select, fetch
// neighbors, write manifest. On any fatal error it releases every frame
// buffer already allocated and returns the error; a WriteFailure can leave
// image files already written under the output directory, and they are not
// removed (spec.md §4.9, §7).
func (s *Session) Run() error {
	if err := s.Options.Validate(); err != nil {
		return err
	}

	s.Progress.Report(StageOpeningVideo, 0, 0, s.Options.InputPath)
	source, err := s.Opener(s.Options.InputPath)
	if err != nil {
		return newError(ErrSourceUnopenable, err)
	}
	defer source.Close()

	meta := source.Metadata()
	sampleRate := ResolveSampleRate(s.Options.Preset, s.Options.SampleRateHz, meta.FPS)
	timestamps := sampler.Generate(meta.DurationSec, sampleRate)

	engine := metrics.NewEngine(s.Bank, s.Options.Preset, 0)
	defer engine.Close()

	frames := s.sampleFrames(source, engine, timestamps, meta.DurationSec)
	defer closeAll(frames)

	s.Progress.Report(StageScoringFrames, 0, 0, "")
	engine.Normalize(frames)
	engine.Combine(frames)
	s.emitWarnings(engine)

	eligible := make([]*metrics.FrameMetrics, 0, len(frames))
	for _, f := range frames {
		if !engine.HardReject(f) {
			eligible = append(eligible, f)
		}
	}

	s.Progress.Report(StageSelectingTop, 0, 0, "")
	selected := ranker.Select(eligible, s.Options.Preset.Thresholds, s.Options.TopK)

	s.Progress.Report(StageFetchingNeighbors, 0, len(selected), "")
	offsets := resolveOffsets(s.Options)
	groups := neighbor.FetchAll(source, engine, selected, meta.DurationSec, sampleRate, offsets)
	s.emitWarnings(engine)
	defer closeNeighborFrames(groups)

	s.Progress.Report(StageWritingManifest, 0, 0, "")
	if writeErr := manifest.Write(s.Options.OutputDir, meta, s.Options.Preset.Name, sampleRate, s.Options.TopK, s.Options.NeighborCount, frames, groups); writeErr != nil {
		return newError(ErrWriteFailure, writeErr)
	}

	manifestPath := fmt.Sprintf("%s/manifest.json", s.Options.OutputDir)
	s.Progress.Report(StageCompleted, 1, 1, manifestPath)
	return nil
}

// sampleFrames decodes and evaluates every sample timestamp, skipping reads
// that fail (spec.md §7 DecodeSkip) without counting them against success.
func (s *Session) sampleFrames(source videosource.Source, engine *metrics.Engine, timestamps []float64, durationSec float64) []*metrics.FrameMetrics {
	frames := make([]*metrics.FrameMetrics, 0, len(timestamps))
	for i, t := range timestamps {
		s.Progress.Report(StageSamplingFrames, i+1, len(timestamps), "")
		full, ok := source.SeekAndRead(t)
		if !ok {
			continue
		}
		frames = append(frames, engine.Evaluate(full, t, durationSec))
	}
	return frames
}

func (s *Session) emitWarnings(engine *metrics.Engine) {
	for _, w := range engine.Warnings() {
		log.Warn().Msg(w)
		s.Progress.Report(StageConfigWarning, 0, 0, w)
	}
}

func closeAll(frames []*metrics.FrameMetrics) {
	for _, f := range frames {
		f.Close()
	}
}

func closeNeighborFrames(groups []neighbor.CandidateNeighbors) {
	for _, g := range groups {
		for _, n := range g.Neighbors {
			n.Metrics.Close()
		}
	}
}
