// Package video wraps GoCV (OpenCV) frame input, output and annotation for
// the counting pipeline.
package video

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrSourceClosed is returned when reading from a closed source.
var ErrSourceClosed = errors.New("video source is not open")

// ErrEndOfStream is returned when a file source runs out of frames.
var ErrEndOfStream = errors.New("end of video stream")

// Reader reads frames from a video file or camera device.
type Reader struct {
	capture *gocv.VideoCapture
	source  string
	open    bool
}

// OpenFile opens a video file for reading.
func OpenFile(path string) (*Reader, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	return &Reader{capture: capture, source: path, open: true}, nil
}

// OpenCamera opens a camera device for reading.
func OpenCamera(deviceID int) (*Reader, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", deviceID, err)
	}
	return &Reader{capture: capture, source: fmt.Sprintf("camera:%d", deviceID), open: true}, nil
}

// Source returns the path or device the reader was opened with.
func (r *Reader) Source() string {
	return r.source
}

// FPS returns the source frame rate, or 0 if unknown.
func (r *Reader) FPS() float64 {
	if !r.open {
		return 0
	}
	return r.capture.Get(gocv.VideoCaptureFPS)
}

// Width returns the frame width in pixels.
func (r *Reader) Width() int {
	if !r.open {
		return 0
	}
	return int(r.capture.Get(gocv.VideoCaptureFrameWidth))
}

// Height returns the frame height in pixels.
func (r *Reader) Height() int {
	if !r.open {
		return 0
	}
	return int(r.capture.Get(gocv.VideoCaptureFrameHeight))
}

// FrameCount returns the total number of frames for file sources, 0 for
// live sources.
func (r *Reader) FrameCount() int {
	if !r.open {
		return 0
	}
	n := int(r.capture.Get(gocv.VideoCaptureFrameCount))
	if n < 0 {
		return 0
	}
	return n
}

// Read reads the next frame into mat. It returns ErrEndOfStream when a file
// source is exhausted.
func (r *Reader) Read(mat *gocv.Mat) error {
	if !r.open {
		return ErrSourceClosed
	}
	if ok := r.capture.Read(mat); !ok {
		return ErrEndOfStream
	}
	if mat.Empty() {
		return ErrEndOfStream
	}
	return nil
}

// Close releases the underlying capture.
func (r *Reader) Close() error {
	if !r.open {
		return nil
	}
	r.open = false
	return r.capture.Close()
}
