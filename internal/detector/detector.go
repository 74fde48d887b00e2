// Package detector defines the detection value type produced once per frame
// and the interface implemented by object detection backends.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/Hihi1310/pizza-counter/internal/geom"
)

// Detection is a single object found in one frame. Detections are ephemeral:
// a fresh set is produced for every frame and never persisted.
type Detection struct {
	Box        geom.Rect
	Confidence float64
	Class      string
}

// Centroid returns the center point of the detection's bounding box.
func (d Detection) Centroid() geom.Point {
	return d.Box.Center()
}

// Valid reports whether the detection is well formed: positive box
// dimensions and a confidence inside [0, 1]. Invalid detections are dropped
// at the pipeline boundary rather than treated as errors.
func (d Detection) Valid() bool {
	return d.Box.Width > 0 && d.Box.Height > 0 &&
		d.Confidence >= 0 && d.Confidence <= 1
}

// Detector is the interface implemented by object detection backends.
type Detector interface {
	// Detect analyzes a video frame and returns the objects found in it.
	// Returns an empty slice if nothing is detected.
	Detect(frame *gocv.Mat) ([]Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}
