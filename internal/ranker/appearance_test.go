package ranker

import (
	"image"
	"testing"

	"gocv.io/x/gocv"
)

func TestAppearanceDistanceIdenticalFramesIsZero(t *testing.T) {
	a := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC3)
	defer a.Close()
	a.SetTo(gocv.NewScalar(60, 120, 200, 0))
	b := a.Clone()
	defer b.Close()

	// Same face in both frames, so faceOverlap = 1 and only colorDist (0 for
	// identical Mats) is left in (colorDist + (1 - faceOverlap)) / 2.
	faces := []image.Rectangle{image.Rect(5, 5, 20, 20)}
	got := appearanceDistance(a, b, faces, faces)
	if got < 0 || got > 0.05 {
		t.Errorf("appearanceDistance(identical) = %v, want ~0", got)
	}
}

func TestAppearanceDistanceIdenticalFramesNoFacesIsHalf(t *testing.T) {
	a := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC3)
	defer a.Close()
	a.SetTo(gocv.NewScalar(60, 120, 200, 0))
	b := a.Clone()
	defer b.Close()

	// spec.md §4.7: faceOverlap = 0 when either face set is empty, so even
	// with colorDist = 0 the distance floors at (0 + (1-0)) / 2 = 0.5.
	got := appearanceDistance(a, b, nil, nil)
	if got < 0.45 || got > 0.55 {
		t.Errorf("appearanceDistance(identical, no faces) = %v, want ~0.5", got)
	}
}

func TestAppearanceDistanceWithinBounds(t *testing.T) {
	a := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC3)
	defer a.Close()
	a.SetTo(gocv.NewScalar(10, 10, 10, 0))
	b := gocv.NewMatWithSize(32, 32, gocv.MatTypeCV8UC3)
	defer b.Close()
	b.SetTo(gocv.NewScalar(250, 250, 250, 0))

	got := appearanceDistance(a, b, nil, nil)
	if got < 0 || got > 2 {
		t.Errorf("appearanceDistance = %v, want in [0,2]", got)
	}
}

func TestFaceOverlapScoreEmptySets(t *testing.T) {
	if got := faceOverlapScore(nil, nil); got != 0 {
		t.Errorf("faceOverlapScore(nil,nil) = %v, want 0", got)
	}
}

func TestFaceOverlapScoreIdenticalFaces(t *testing.T) {
	faces := []image.Rectangle{image.Rect(10, 10, 50, 50)}
	if got := faceOverlapScore(faces, faces); got != 1 {
		t.Errorf("faceOverlapScore(identical) = %v, want 1", got)
	}
}
