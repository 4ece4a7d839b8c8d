// Package imgutil holds the small gocv.Mat helpers shared by facedetect,
// metrics, and ranker, so each of those packages doesn't
// reimplement downscaling, clamping, or grayscale conversion on its own.
package imgutil

import (
	"image"

	"gocv.io/x/gocv"
)

// DefaultAnalysisWidth is the design-constant target width for the
// downscaled analysis image (spec.md §4.4, §9). Not a preset tuning knob.
const DefaultAnalysisWidth = 640

// Downscale returns a copy of src resized so its width equals targetWidth,
// preserving aspect ratio. If src's width is already <= targetWidth, it
// returns an unmodified clone.
func Downscale(src gocv.Mat, targetWidth int) gocv.Mat {
	w := src.Cols()
	h := src.Rows()
	if w <= 0 || h <= 0 || w <= targetWidth {
		return src.Clone()
	}

	targetHeight := int(float64(h) * float64(targetWidth) / float64(w))
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Pt(targetWidth, targetHeight), 0, 0, gocv.InterpolationLinear)
	return dst
}

// ToGray converts a BGR Mat to single-channel grayscale.
func ToGray(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return dst
}

// ClampRect clamps r to lie within [0,0,width,height], returning a
// zero-area rectangle if the clamp collapses it.
func ClampRect(r image.Rectangle, width, height int) image.Rectangle {
	minX := clampInt(r.Min.X, 0, width)
	minY := clampInt(r.Min.Y, 0, height)
	maxX := clampInt(r.Max.X, 0, width)
	maxY := clampInt(r.Max.Y, 0, height)
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	return image.Rect(minX, minY, maxX, maxY)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFloat clamps v into [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IoU returns the intersection-over-union of two rectangles in [0,1].
func IoU(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	interArea := float64(inter.Dx() * inter.Dy())
	union := float64(a.Dx()*a.Dy()) + float64(b.Dx()*b.Dy()) - interArea
	if union <= 0 {
		return 0
	}
	return interArea / union
}

// ExpandRect grows r by marginPx on every side, then clamps to bounds.
func ExpandRect(r image.Rectangle, marginPx, width, height int) image.Rectangle {
	grown := image.Rect(r.Min.X-marginPx, r.Min.Y-marginPx, r.Max.X+marginPx, r.Max.Y+marginPx)
	return ClampRect(grown, width, height)
}

// LargestFace returns the rectangle with the greatest area in faces, or
// ok=false if faces is empty.
func LargestFace(faces []image.Rectangle) (image.Rectangle, bool) {
	if len(faces) == 0 {
		return image.Rectangle{}, false
	}
	largest := faces[0]
	largestArea := largest.Dx() * largest.Dy()
	for _, f := range faces[1:] {
		area := f.Dx() * f.Dy()
		if area > largestArea {
			largest = f
			largestArea = area
		}
	}
	return largest, true
}
