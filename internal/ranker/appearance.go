package ranker

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/daverage/yt-thumb/internal/imgutil"
)

const (
	thumbSize   = 64
	histBins    = 32
)

// appearanceDistance implements spec.md §4.7: a [0,2]-ish distance combining
// color-histogram dissimilarity and face-position overlap between two
// downscaled analysis frames.
func appearanceDistance(a, b gocv.Mat, facesA, facesB []image.Rectangle) float64 {
	colorDist := colorHistDistance(a, b)
	faceOverlap := faceOverlapScore(facesA, facesB)
	return (colorDist + (1 - faceOverlap)) / 2
}

func colorHistDistance(a, b gocv.Mat) float64 {
	ta := toYCrCbThumb(a)
	defer ta.Close()
	tb := toYCrCbThumb(b)
	defer tb.Close()

	chansA := gocv.Split(ta)
	defer closeMats(chansA)
	chansB := gocv.Split(tb)
	defer closeMats(chansB)

	sum := 0.0
	for i := 0; i < 3 && i < len(chansA) && i < len(chansB); i++ {
		sum += 1 - histCorrelation(chansA[i], chansB[i])
	}
	return sum / 3.0
}

func toYCrCbThumb(src gocv.Mat) gocv.Mat {
	resized := gocv.NewMat()
	gocv.Resize(src, &resized, image.Pt(thumbSize, thumbSize), 0, 0, gocv.InterpolationLinear)
	defer resized.Close()

	ycc := gocv.NewMat()
	gocv.CvtColor(resized, &ycc, gocv.ColorBGRToYCrCb)
	return ycc
}

func histCorrelation(chanA, chanB gocv.Mat) float64 {
	histA := gocv.NewMat()
	defer histA.Close()
	histB := gocv.NewMat()
	defer histB.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	gocv.CalcHist([]gocv.Mat{chanA}, []int{0}, mask, &histA, []int{histBins}, []float64{0, 256}, false)
	gocv.CalcHist([]gocv.Mat{chanB}, []int{0}, mask, &histB, []int{histBins}, []float64{0, 256}, false)

	gocv.Normalize(histA, &histA, 1, 0, gocv.NormL1)
	gocv.Normalize(histB, &histB, 1, 0, gocv.NormL1)

	return float64(gocv.CompareHist(histA, histB, gocv.HistCmpCorrel))
}

func faceOverlapScore(facesA, facesB []image.Rectangle) float64 {
	faceA, okA := imgutil.LargestFace(facesA)
	faceB, okB := imgutil.LargestFace(facesB)
	if !okA || !okB {
		return 0
	}
	return imgutil.IoU(faceA, faceB)
}

func closeMats(mats []gocv.Mat) {
	for _, m := range mats {
		m.Close()
	}
}
