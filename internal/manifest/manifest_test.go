package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/internal/metrics"
	"github.com/daverage/yt-thumb/internal/neighbor"
	"github.com/daverage/yt-thumb/internal/videosource"
)

func TestSuggestedCrop16x9Unchanged(t *testing.T) {
	x, y, w, h := SuggestedCrop(1920, 1080)
	if x != 0 || y != 0 || w != 1920 || h != 1080 {
		t.Errorf("SuggestedCrop(1920,1080) = (%d,%d,%d,%d), want (0,0,1920,1080)", x, y, w, h)
	}
}

func TestSuggestedCropTallerThan16x9(t *testing.T) {
	x, y, w, h := SuggestedCrop(1920, 1200)
	if x != 0 || y != 60 || w != 1920 || h != 1080 {
		t.Errorf("SuggestedCrop(1920,1200) = (%d,%d,%d,%d), want (0,60,1920,1080)", x, y, w, h)
	}
}

func TestSuggestedCropNarrowerThan16x9(t *testing.T) {
	x, y, w, h := SuggestedCrop(1000, 1080)
	if w != 1000 || h != 562 || x != 0 {
		t.Errorf("SuggestedCrop(1000,1080) = (%d,%d,%d,%d), want (0,*,1000,562)", x, y, w, h)
	}
	wantY := (1080 - 562) / 2
	if y != wantY {
		t.Errorf("y = %d, want %d", y, wantY)
	}
}

func newFrame(t float64, score float64) *metrics.FrameMetrics {
	return &metrics.FrameMetrics{
		SampleTime: t,
		Score:      score,
		Full:       gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3),
		Analysis:   gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3),
	}
}

func TestWriteProducesManifestAndFiles(t *testing.T) {
	dir, err := os.MkdirTemp("", "manifest-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	f0 := newFrame(0, 0.4)
	f1 := newFrame(1, 0.9)
	frames := []*metrics.FrameMetrics{f0, f1}
	defer func() {
		for _, f := range frames {
			f.Close()
		}
	}()

	meta := videosource.Metadata{Path: "in.mp4", DurationSec: 1, FPS: 30, Width: 1920, Height: 1080}
	groups := []neighbor.CandidateNeighbors{
		{Candidate: f1, Neighbors: nil},
	}

	if err := Write(dir, meta, "default", 2.0, 1, 0, frames, groups); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "frames")); err != nil {
		t.Errorf("frames dir missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "candidates")); err != nil {
		t.Errorf("candidates dir missing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatalf("reading manifest.json: %v", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal manifest.json: %v", err)
	}
	if m.Video.Path != "in.mp4" || m.Video.Width != 1920 {
		t.Errorf("video section = %+v, unexpected", m.Video)
	}
	if m.FramesAnalyzed != 2 {
		t.Errorf("framesAnalyzed = %d, want 2", m.FramesAnalyzed)
	}
	if len(m.Scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(m.Scores))
	}
	if len(m.Top) != 1 {
		t.Fatalf("len(top) = %d, want 1", len(m.Top))
	}
	if m.Top[0].SuggestedCrop.Width != 1920 || m.Top[0].SuggestedCrop.Height != 1080 {
		t.Errorf("suggestedCrop = %+v, want full 16:9 frame", m.Top[0].SuggestedCrop)
	}
}

func TestWriteManifestRoundTrip(t *testing.T) {
	// spec.md §8 S8: parsed and re-serialized, the manifest is byte-identical
	// modulo key insertion order.
	dir, err := os.MkdirTemp("", "manifest-roundtrip-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	f0 := newFrame(0, 1.0)
	defer f0.Close()
	meta := videosource.Metadata{Path: "in.mp4", DurationSec: 1, FPS: 30, Width: 1920, Height: 1080}

	if err := Write(dir, meta, "default", 1.0, 1, 0, []*metrics.FrameMetrics{f0}, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	original, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}

	var m Manifest
	if err := json.Unmarshal(original, &m); err != nil {
		t.Fatal(err)
	}
	reserialized, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatal(err)
	}

	var a, b interface{}
	if err := json.Unmarshal(original, &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(reserialized, &b); err != nil {
		t.Fatal(err)
	}
	aJSON, _ := json.Marshal(a)
	bJSON, _ := json.Marshal(b)
	if string(aJSON) != string(bJSON) {
		t.Errorf("manifest round-trip mismatch:\noriginal: %s\nre-serialized: %s", aJSON, bJSON)
	}
}
