package videosource

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"
	ffprobe "gopkg.in/vansante/go-ffprobe.v2"
)

// probeTimeout mirrors the teacher's ffprobe.ProbeURL call budget
// (qcasey-airphoto-server/asset.go used 15 seconds for the same purpose).
const probeTimeout = 15 * time.Second

// GocvSource decodes frames with gocv.VideoCapture. At open time it resolves
// the frame width and height with ffprobe, falling back to the capture's own
// reported size when ffprobe is unavailable or the stream lacks a video
// track; frame rate and frame count always come from the capture.
type GocvSource struct {
	capture *gocv.VideoCapture
	meta    Metadata
	scratch gocv.Mat
}

// Open implements spec.md §4.2's open(path) -> handle or fail. It is the
// only operation in the Video Source contract that may fail fatally.
func Open(path string) (*GocvSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("videosource: open %q: %w", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("videosource: %q did not open", path)
	}

	width, height := probeDimensions(path, capture)
	fps := capture.Get(gocv.VideoCaptureFPS)
	frameCount := int(capture.Get(gocv.VideoCaptureFrameCount))

	return &GocvSource{
		capture: capture,
		meta:    resolveMetadata(path, fps, width, height, frameCount),
		scratch: gocv.NewMat(),
	}, nil
}

// probeDimensions tries ffprobe first (grounded on the teacher's
// ffprobe.ProbeURL usage for exactly these two fields), and falls back to
// the capture's own reported frame size if ffprobe fails or the file has no
// video stream.
func probeDimensions(path string, capture *gocv.VideoCapture) (width, height int) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	data, err := ffprobe.ProbeURL(ctx, path)
	if err == nil {
		if stream := data.FirstVideoStream(); stream != nil && stream.Width > 0 && stream.Height > 0 {
			return stream.Width, stream.Height
		}
	}

	return int(capture.Get(gocv.VideoCaptureFrameWidth)), int(capture.Get(gocv.VideoCaptureFrameHeight))
}

func (s *GocvSource) Metadata() Metadata {
	return s.meta
}

// SeekAndRead seeks by absolute timestamp and decodes one frame. A read
// failure or an empty frame (end of stream) returns ok=false rather than an
// error, per spec.md §4.2 and §7's DecodeSkip.
func (s *GocvSource) SeekAndRead(timeSec float64) (gocv.Mat, bool) {
	if timeSec < 0 {
		return gocv.Mat{}, false
	}

	s.capture.Set(gocv.VideoCapturePosMsec, timeSec*1000.0)
	if ok := s.capture.Read(&s.scratch); !ok {
		return gocv.Mat{}, false
	}
	if s.scratch.Empty() {
		return gocv.Mat{}, false
	}
	return s.scratch.Clone(), true
}

func (s *GocvSource) Close() error {
	s.scratch.Close()
	return s.capture.Close()
}
