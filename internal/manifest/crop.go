package manifest

import "math"

// SuggestedCrop computes the largest centered 16:9 box for a width x height
// frame (spec.md §4.10). If the frame's aspect ratio differs from 16/9 by
// less than 0.01, the full frame is returned unchanged.
func SuggestedCrop(width, height int) (x, y, w, h int) {
	const targetRatio = 16.0 / 9.0
	ratio := float64(width) / float64(height)
	if math.Abs(ratio-targetRatio) < 0.01 {
		return 0, 0, width, height
	}

	targetH := int(float64(width) * 9.0 / 16.0)
	if targetH > height {
		w = int(float64(height) * 16.0 / 9.0)
		h = height
	} else {
		w = width
		h = targetH
	}
	x = (width - w) / 2
	y = (height - h) / 2
	return x, y, w, h
}
