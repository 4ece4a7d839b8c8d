// Package facedetect implements the Face Detector Bank capability
// (spec.md §4.3): given a grayscale analysis image and a mode, return a set
// of face rectangles using injected, already-loaded cascade classifiers.
// Cascade *discovery* is explicitly out of scope — the caller loads the
// classifiers and hands them to NewBank.
package facedetect

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/internal/imgutil"
)

// Mode selects which cascade(s) a Detect call consults.
type Mode string

const (
	Default Mode = "default"
	Glasses Mode = "glasses"
	Smile   Mode = "smile"
)

// Classifiers holds the already-loaded cascades the bank consults. Any
// field may be nil if that cascade file was not found or failed to load;
// the corresponding mode then degrades to an empty detection plus a
// warning rather than a fatal error (spec.md §7 DetectorMissing).
type Classifiers struct {
	Frontal    *gocv.CascadeClassifier
	Profile    *gocv.CascadeClassifier
	EyeGlasses *gocv.CascadeClassifier
	Smile      *gocv.CascadeClassifier
}

// Bank is the Face Detector Bank capability (spec.md §4.3).
type Bank struct {
	classifiers Classifiers
}

// NewBank wraps a set of injected, pre-loaded cascade classifiers.
func NewBank(c Classifiers) *Bank {
	return &Bank{classifiers: c}
}

// Detect returns face rectangles in the analysis image's coordinate space
// for the given mode, plus any warnings produced by missing classifiers.
// It never returns an error — a missing cascade degrades to an empty
// result, per spec.md §7.
func (b *Bank) Detect(gray gocv.Mat, mode Mode) ([]image.Rectangle, []string) {
	width, height := gray.Cols(), gray.Rows()

	switch mode {
	case Glasses:
		eyes, warnings := detectWithCascade(b.classifiers.EyeGlasses, "eye_glasses", gray, 1.05, 3, image.Pt(30, 30))
		faces := make([]image.Rectangle, 0, len(eyes))
		for _, eye := range eyes {
			faces = append(faces, expandEyeToFace(eye, width, height))
		}
		return dedupe(clampAll(faces, width, height)), warnings

	case Smile:
		smiles, warnings := detectWithCascade(b.classifiers.Smile, "smile", gray, 1.1, 20, image.Pt(30, 30))
		return dedupe(clampAll(smiles, width, height)), warnings

	default: // Default: frontal union profile
		frontal, wFrontal := detectWithCascade(b.classifiers.Frontal, "frontal", gray, 1.1, 5, image.Pt(60, 60))
		profile, wProfile := detectWithCascade(b.classifiers.Profile, "profile", gray, 1.1, 4, image.Pt(60, 60))
		all := append(append([]image.Rectangle{}, frontal...), profile...)
		return dedupe(clampAll(all, width, height)), append(wFrontal, wProfile...)
	}
}

// detectWithCascade runs DetectMultiScale with the given parameters, or
// returns an empty result plus a warning if cascade is nil.
func detectWithCascade(cascade *gocv.CascadeClassifier, name string, gray gocv.Mat, scaleFactor float64, minNeighbors int, minSize image.Point) ([]image.Rectangle, []string) {
	if cascade == nil {
		return nil, []string{fmt.Sprintf("facedetect: %s cascade not loaded, skipping", name)}
	}
	rects := cascade.DetectMultiScaleWithParams(gray, scaleFactor, minNeighbors, 0, minSize, image.Point{})
	return rects, nil
}

// expandEyeToFace turns a detected eye-with-glasses rectangle into an
// estimated face box, per spec.md §4.3's Glasses mode expansion formula.
func expandEyeToFace(eye image.Rectangle, width, height int) image.Rectangle {
	w := float64(eye.Dx())
	h := float64(eye.Dy())
	x := float64(eye.Min.X)
	y := float64(eye.Min.Y)

	newW := w * 2.2
	newH := h * 3.2
	newX := x - 0.6*w
	newY := y - 1.2*h

	r := image.Rect(int(newX), int(newY), int(newX+newW), int(newY+newH))
	return imgutil.ClampRect(r, width, height)
}

func clampAll(rects []image.Rectangle, width, height int) []image.Rectangle {
	out := make([]image.Rectangle, len(rects))
	for i, r := range rects {
		out[i] = imgutil.ClampRect(r, width, height)
	}
	return out
}

// dedupeIoUThreshold collapses near-duplicate rectangles from overlapping
// cascades (e.g. frontal ∪ profile both firing on the same face).
const dedupeIoUThreshold = 0.5

func dedupe(rects []image.Rectangle) []image.Rectangle {
	out := make([]image.Rectangle, 0, len(rects))
	for _, r := range rects {
		if r.Dx() <= 0 || r.Dy() <= 0 {
			continue
		}
		duplicate := false
		for _, kept := range out {
			if imgutil.IoU(r, kept) > dedupeIoUThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, r)
		}
	}
	return out
}
