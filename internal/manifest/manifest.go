// Package manifest implements the Manifest Writer (spec.md §4.10, §6): it
// saves every evaluated frame and selected candidate/neighbor as a PNG and
// emits the bit-exact manifest.json describing them.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/internal/metrics"
	"github.com/daverage/yt-thumb/internal/neighbor"
	"github.com/daverage/yt-thumb/internal/videosource"
)

type videoInfo struct {
	Path        string  `json:"path"`
	DurationSec float64 `json:"durationSec"`
	FPS         float64 `json:"fps"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

type parameters struct {
	FPS       float64 `json:"fps"`
	Top       int     `json:"top"`
	Neighbors int     `json:"neighbors"`
}

type scoreEntry struct {
	T             float64 `json:"t"`
	Sharp         float64 `json:"sharp"`
	SharpRaw      float64 `json:"sharpRaw"`
	Exposure      float64 `json:"exposure"`
	ExposureRaw   float64 `json:"exposureRaw"`
	Contrast      float64 `json:"contrast"`
	ContrastRaw   float64 `json:"contrastRaw"`
	Color         float64 `json:"color"`
	ColorRaw      float64 `json:"colorRaw"`
	Face          float64 `json:"face"`
	FaceRaw       float64 `json:"faceRaw"`
	Centrality    float64 `json:"centrality"`
	CentralityRaw float64 `json:"centralityRaw"`
	Clutter       float64 `json:"clutter"`
	ClutterRaw    float64 `json:"clutterRaw"`
	Overlay       float64 `json:"overlay"`
	OverlayRaw    float64 `json:"overlayRaw"`
	Motion        float64 `json:"motion"`
	MotionRaw     float64 `json:"motionRaw"`
	Time          float64 `json:"time"`
	TimeRaw       float64 `json:"timeRaw"`
	Score         float64 `json:"score"`
	Path          string  `json:"path"`
}

type neighborEntry struct {
	DT   int    `json:"dt"`
	Path string `json:"path"`
}

type cropRect struct {
	X      int `json:"X"`
	Y      int `json:"Y"`
	Width  int `json:"Width"`
	Height int `json:"Height"`
}

type topEntry struct {
	T             float64         `json:"t"`
	Score         float64         `json:"score"`
	Path          string          `json:"path"`
	Neighbors     []neighborEntry `json:"neighbors"`
	SuggestedCrop cropRect        `json:"suggestedCrop"`
}

// Manifest is the bit-exact JSON document written to <out>/manifest.json
// (spec.md §6).
type Manifest struct {
	Video          videoInfo    `json:"video"`
	Preset         string       `json:"preset"`
	Parameters     parameters   `json:"parameters"`
	FramesAnalyzed int          `json:"framesAnalyzed"`
	Scores         []scoreEntry `json:"scores"`
	Top            []topEntry   `json:"top"`
}

// Write saves every frame's full-resolution image under <outDir>/frames/,
// every selected candidate and its neighbors under <outDir>/candidates/,
// and serializes manifest.json. Callers retain ownership of frames and
// groups' image buffers — Write never closes a Mat.
func Write(outDir string, meta videosource.Metadata, presetName string, resolvedFPS float64, topK, neighborCount int, frames []*metrics.FrameMetrics, groups []neighbor.CandidateNeighbors) error {
	framesDir := filepath.Join(outDir, "frames")
	candidatesDir := filepath.Join(outDir, "candidates")
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return fmt.Errorf("manifest: creating frames dir: %w", err)
	}
	if err := os.MkdirAll(candidatesDir, 0o755); err != nil {
		return fmt.Errorf("manifest: creating candidates dir: %w", err)
	}

	scores := make([]scoreEntry, 0, len(frames))
	for _, f := range frames {
		path := filepath.Join(framesDir, frameFilename(f.SampleTime))
		if !gocv.IMWrite(path, f.Full) {
			return fmt.Errorf("manifest: writing frame image %s", path)
		}
		f.SetSavedPath(path)
		scores = append(scores, scoreEntryFor(f, path))
	}

	top := make([]topEntry, 0, len(groups))
	for _, g := range groups {
		entry, err := writeCandidate(candidatesDir, meta, g)
		if err != nil {
			return err
		}
		top = append(top, entry)
	}

	m := Manifest{
		Video:          videoInfo{Path: meta.Path, DurationSec: meta.DurationSec, FPS: meta.FPS, Width: meta.Width, Height: meta.Height},
		Preset:         presetName,
		Parameters:     parameters{FPS: resolvedFPS, Top: topK, Neighbors: neighborCount},
		FramesAnalyzed: len(frames),
		Scores:         scores,
		Top:            top,
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest: encoding: %w", err)
	}
	manifestPath := filepath.Join(outDir, "manifest.json")
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return fmt.Errorf("manifest: writing %s: %w", manifestPath, err)
	}
	return nil
}

func scoreEntryFor(f *metrics.FrameMetrics, path string) scoreEntry {
	return scoreEntry{
		T:             f.SampleTime,
		Sharp:         f.Normalized.Sharpness,
		SharpRaw:      f.Raw.Sharpness,
		Exposure:      f.Normalized.Exposure,
		ExposureRaw:   f.Raw.Exposure,
		Contrast:      f.Normalized.Contrast,
		ContrastRaw:   f.Raw.Contrast,
		Color:         f.Normalized.Colorfulness,
		ColorRaw:      f.Raw.Colorfulness,
		Face:          f.Normalized.FaceScore,
		FaceRaw:       f.Raw.FaceScore,
		Centrality:    f.Normalized.Centrality,
		CentralityRaw: f.Raw.Centrality,
		Clutter:       f.Normalized.Clutter,
		ClutterRaw:    f.Raw.Clutter,
		Overlay:       f.Normalized.OverlaySafe,
		OverlayRaw:    f.Raw.OverlaySafe,
		Motion:        f.Normalized.Motion,
		MotionRaw:     f.Raw.Motion,
		Time:          f.Normalized.TimePrior,
		TimeRaw:       f.Raw.TimePrior,
		Score:         f.Score,
		Path:          path,
	}
}

func writeCandidate(candidatesDir string, meta videosource.Metadata, g neighbor.CandidateNeighbors) (topEntry, error) {
	c := g.Candidate
	mainPath := filepath.Join(candidatesDir, candidateFilename(c.SampleTime, "main"))
	if !gocv.IMWrite(mainPath, c.Full) {
		return topEntry{}, fmt.Errorf("manifest: writing candidate image %s", mainPath)
	}

	neighbors := make([]neighborEntry, 0, len(g.Neighbors))
	for _, n := range g.Neighbors {
		path := filepath.Join(candidatesDir, candidateFilename(c.SampleTime, neighborSuffix(n.Offset)))
		if !gocv.IMWrite(path, n.Metrics.Full) {
			return topEntry{}, fmt.Errorf("manifest: writing neighbor image %s", path)
		}
		neighbors = append(neighbors, neighborEntry{DT: n.Offset, Path: path})
	}

	x, y, w, h := SuggestedCrop(meta.Width, meta.Height)
	return topEntry{
		T:             c.SampleTime,
		Score:         c.Score,
		Path:          mainPath,
		Neighbors:     neighbors,
		SuggestedCrop: cropRect{X: x, Y: y, Width: w, Height: h},
	}, nil
}

// frameFilename formats a sample time as frames/f_{t:000000.000}.png's base
// name: six integer digits, three decimal places (spec.md §4.10).
func frameFilename(t float64) string {
	return fmt.Sprintf("f_%010.3f.png", t)
}

func candidateFilename(t float64, suffix string) string {
	return fmt.Sprintf("c_%010.3f_%s.png", t, suffix)
}

func neighborSuffix(offset int) string {
	if offset < 0 {
		return fmt.Sprintf("m%d", -offset)
	}
	return fmt.Sprintf("p%d", offset)
}
