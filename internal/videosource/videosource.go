// Package videosource implements the Video Source capability (spec.md
// §4.2): open a file, expose its metadata, and seek-and-read decoded BGR
// frames by absolute timestamp.
package videosource

import "gocv.io/x/gocv"

// Metadata is the immutable per-run video information derived at open time
// (spec.md §3's VideoMetadata).
type Metadata struct {
	Path        string
	DurationSec float64
	FPS         float64
	Width       int
	Height      int
}

// Source is the narrow capability the core pipeline depends on. Production
// code gets it from Open; tests substitute NewFake.
type Source interface {
	// Metadata returns the video's immutable metadata.
	Metadata() Metadata
	// SeekAndRead seeks to the given absolute timestamp and returns the
	// decoded BGR frame, or (Mat{}, false) if the read failed or the
	// timestamp is past end-of-stream. A read failure is never an error —
	// the caller skips that timestamp (spec.md §4.2, §7 DecodeSkip).
	SeekAndRead(timeSec float64) (gocv.Mat, bool)
	// Close releases the underlying decoder resources.
	Close() error
}

// substituteFPS is used when the container reports a non-positive frame
// rate (spec.md §3).
const substituteFPS = 30.0

// resolveMetadata applies spec.md §3's fallback rules for the real source.
// NewFake does not call it; a FakeSource reports its metadata as given.
func resolveMetadata(path string, reportedFPS float64, width, height, frameCount int) Metadata {
	fps := reportedFPS
	if fps <= 0 {
		fps = substituteFPS
	}
	duration := 0.0
	if frameCount > 0 {
		duration = float64(frameCount) / fps
	}
	return Metadata{
		Path:        path,
		DurationSec: duration,
		FPS:         fps,
		Width:       width,
		Height:      height,
	}
}
