package metrics

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/internal/imgutil"
	"github.com/daverage/yt-thumb/internal/preset"
)

// cannyLow/cannyHigh and the clutter face-mask margin are design constants
// (spec.md §4.4, §9), not preset tuning knobs.
const (
	cannyLow         = 100
	cannyHigh        = 200
	clutterFaceMargin = 5
	overlayIoUThresh = 0.1
	sobelKernelSize  = 3
)

func stdDevOf(m gocv.Mat) float64 {
	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(m, &mean, &stddev)
	return stddev.GetDoubleAt(0, 0)
}

func meanOf(m gocv.Mat) float64 {
	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(m, &mean, &stddev)
	return mean.GetDoubleAt(0, 0)
}

// sharpness is the variance of the Laplacian response of a grayscale image
// (spec.md §4.4).
func sharpness(gray gocv.Mat) float64 {
	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)
	sigma := stdDevOf(lap)
	return sigma * sigma
}

// exposureContrast returns the mean and standard deviation of the L channel
// after BGR->Lab conversion.
func exposureContrast(analysisBGR gocv.Mat) (exposure, contrast float64) {
	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(analysisBGR, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	defer closeAll(channels)

	l := channels[0]
	return meanOf(l), stdDevOf(l)
}

// colorfulness implements the Hasler-Süsstrunk metric (spec.md §4.4).
func colorfulness(analysisBGR gocv.Mat) float64 {
	channels := gocv.Split(analysisBGR) // B, G, R in that order
	defer closeAll(channels)

	toFloat := func(m gocv.Mat) gocv.Mat {
		f := gocv.NewMat()
		m.ConvertTo(&f, gocv.MatTypeCV32F)
		return f
	}
	bf := toFloat(channels[0])
	defer bf.Close()
	gf := toFloat(channels[1])
	defer gf.Close()
	rf := toFloat(channels[2])
	defer rf.Close()

	rg := gocv.NewMat()
	defer rg.Close()
	gocv.AbsDiff(rf, gf, &rg)

	avgRG := gocv.NewMat()
	defer avgRG.Close()
	gocv.AddWeighted(rf, 0.5, gf, 0.5, 0, &avgRG)

	yb := gocv.NewMat()
	defer yb.Close()
	gocv.AbsDiff(avgRG, bf, &yb)

	return stdDevOf(rg) + 0.3*stdDevOf(yb)
}

// faceScore is the largest face's area over the image area, clamped to
// [0,1]; 0 if there are no faces (spec.md §4.4).
func faceScore(faces []image.Rectangle, width, height int) float64 {
	largest, ok := imgutil.LargestFace(faces)
	if !ok {
		return 0
	}
	imageArea := float64(width) * float64(height)
	if imageArea <= 0 {
		return 0
	}
	faceArea := float64(largest.Dx()) * float64(largest.Dy())
	return imgutil.ClampFloat(faceArea/imageArea, 0, 1)
}

// centrality measures how close the largest face's center is to a
// rule-of-thirds intersection point (spec.md §4.4). 0.5 with no faces.
func centrality(faces []image.Rectangle, width, height int) float64 {
	largest, ok := imgutil.LargestFace(faces)
	if !ok {
		return 0.5
	}

	cx := float64(largest.Min.X+largest.Max.X) / 2
	cy := float64(largest.Min.Y+largest.Max.Y) / 2

	w, h := float64(width), float64(height)
	thirds := [4][2]float64{
		{w / 3, h / 3}, {2 * w / 3, h / 3},
		{w / 3, 2 * h / 3}, {2 * w / 3, 2 * h / 3},
	}

	minDist := math.MaxFloat64
	for _, pt := range thirds {
		d := math.Hypot(cx-pt[0], cy-pt[1])
		if d < minDist {
			minDist = d
		}
	}

	diag := math.Hypot(w/2, h/2)
	if diag <= 0 {
		return 0.5
	}
	ratio := imgutil.ClampFloat(minDist/diag, 0, 1)
	return 1 - ratio
}

// clutter returns the number of Canny edge pixels outside the (5 px
// expanded) face rectangles, divided by the total pixel count W*H
// (spec.md §4.4). Higher means busier outside the face(s).
func clutter(gray gocv.Mat, faces []image.Rectangle) float64 {
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, cannyLow, cannyHigh)

	width, height := gray.Cols(), gray.Rows()
	for _, f := range faces {
		masked := imgutil.ExpandRect(f, clutterFaceMargin, width, height)
		if masked.Dx() <= 0 || masked.Dy() <= 0 {
			continue
		}
		region := edges.Region(image.Rect(masked.Min.X, masked.Min.Y, masked.Max.X, masked.Max.Y))
		region.SetTo(gocv.NewScalar(0, 0, 0, 0))
		region.Close()
	}

	total := width * height
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(edges)) / float64(total)
}

// overlaySafe scores how safely an overlay could be composited over the
// configured zones without colliding with busy content or a detected face
// (spec.md §4.4). Returns 1 if there are no zones.
func overlaySafe(gray gocv.Mat, faces []image.Rectangle, zones []preset.OverlayZone, power float64) float64 {
	if len(zones) == 0 {
		return 1
	}

	width, height := gray.Cols(), gray.Rows()
	var penaltySum float64

	for _, z := range zones {
		roi := imgutil.ClampRect(image.Rect(
			int(z.X*float64(width)),
			int(z.Y*float64(height)),
			int((z.X+z.W)*float64(width)),
			int((z.Y+z.H)*float64(height)),
		), width, height)

		busy := 0.0
		if roi.Dx() > 0 && roi.Dy() > 0 {
			region := gray.Region(roi)
			sobel := gocv.NewMat()
			gocv.Sobel(region, &sobel, gocv.MatTypeCV64F, 2, 2, sobelKernelSize, 1, 0, gocv.BorderDefault)
			edgesStd := stdDevOf(sobel)
			sobel.Close()
			region.Close()
			busy = math.Min(1, edgesStd/100)
		}

		faceOverlap := 0.0
		for _, f := range faces {
			if imgutil.IoU(f, roi) > overlayIoUThresh {
				faceOverlap = 1
				break
			}
		}

		penaltySum += (busy + faceOverlap) / 2
	}

	norm := imgutil.ClampFloat(penaltySum/float64(len(zones)), 0, 1)
	return math.Pow(1-norm, power)
}

// motion is the standard deviation of the absolute difference between the
// current and previous grayscale analysis images (spec.md §4.4).
func motion(gray, prevGray gocv.Mat) float64 {
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, prevGray, &diff)
	return stdDevOf(diff)
}

// timePrior peaks at the video midpoint (spec.md §4.4).
func timePrior(t, duration float64) float64 {
	if duration <= 0 {
		return 0.5
	}
	n := imgutil.ClampFloat(t/duration, 0, 1)
	return math.Max(0, 1-2*math.Abs(n-0.5))
}

func closeAll(mats []gocv.Mat) {
	for _, m := range mats {
		m.Close()
	}
}
