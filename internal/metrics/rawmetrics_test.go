package metrics

import (
	"image"
	"math"
	"testing"

	"gocv.io/x/gocv"
)

func TestTimePrior(t *testing.T) {
	cases := []struct {
		name     string
		t, dur   float64
		want     float64
	}{
		{"midpoint", 0.5, 1, 1.0},
		{"start", 0, 1, 0},
		{"quarter", 0.25, 1, 0.5},
		{"zero duration", 123, 0, 0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := timePrior(c.t, c.dur)
			if math.Abs(got-c.want) > 1e-9 {
				t.Errorf("timePrior(%v,%v) = %v, want %v", c.t, c.dur, got, c.want)
			}
		})
	}
}

func TestFaceScoreNoFaces(t *testing.T) {
	if got := faceScore(nil, 100, 100); got != 0 {
		t.Errorf("faceScore with no faces = %v, want 0", got)
	}
}

func TestFaceScoreClampedToImageArea(t *testing.T) {
	faces := []image.Rectangle{image.Rect(0, 0, 100, 100)}
	got := faceScore(faces, 100, 100)
	if got != 1 {
		t.Errorf("faceScore = %v, want 1 (face fills frame)", got)
	}
}

func TestCentralityNoFaces(t *testing.T) {
	if got := centrality(nil, 100, 100); got != 0.5 {
		t.Errorf("centrality with no faces = %v, want 0.5", got)
	}
}

func TestCentralityFaceAtThirdsPoint(t *testing.T) {
	// A tiny face centered exactly on the top-left thirds intersection of a
	// 300x300 frame (100,100) should score close to 1.
	faces := []image.Rectangle{image.Rect(98, 98, 102, 102)}
	got := centrality(faces, 300, 300)
	if got < 0.95 {
		t.Errorf("centrality at thirds point = %v, want close to 1", got)
	}
}

func TestMotionZeroForIdenticalFrames(t *testing.T) {
	a := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC1)
	defer a.Close()
	b := a.Clone()
	defer b.Close()

	got := motion(a, b)
	if got != 0 {
		t.Errorf("motion between identical frames = %v, want 0", got)
	}
}

func TestOverlaySafeNoZones(t *testing.T) {
	gray := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC1)
	defer gray.Close()
	got := overlaySafe(gray, nil, nil, 1.0)
	if got != 1 {
		t.Errorf("overlaySafe with no zones = %v, want 1", got)
	}
}

func TestSharpnessNonNegative(t *testing.T) {
	gray := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC1)
	defer gray.Close()
	gray.SetTo(gocv.NewScalar(128, 0, 0, 0))
	if got := sharpness(gray); got < 0 {
		t.Errorf("sharpness = %v, want >= 0", got)
	}
}

func TestColorfulnessNonNegative(t *testing.T) {
	img := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC3)
	defer img.Close()
	img.SetTo(gocv.NewScalar(50, 100, 200, 0))
	if got := colorfulness(img); got < 0 {
		t.Errorf("colorfulness = %v, want >= 0", got)
	}
}
