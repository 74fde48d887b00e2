package detector

import (
	"gocv.io/x/gocv"

	"github.com/Hihi1310/pizza-counter/internal/geom"
)

// MockDetector is a test implementation of the Detector interface.
// It replays a scripted sequence of per-frame detection sets.
type MockDetector struct {
	frames [][]Detection
	next   int
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrames sets the per-frame detection sets that Detect will replay in
// order. Once the sequence is exhausted, Detect returns empty sets.
func (m *MockDetector) SetFrames(frames [][]Detection) {
	m.frames = frames
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the next scripted detection set.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.next >= len(m.frames) {
		return nil, nil
	}
	dets := m.frames[m.next]
	m.next++
	return dets, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// BoxAt returns a detection of the given size centered on (cx, cy), with
// high confidence and the "pizza" class. Convenient for building scripted
// trajectories in tests.
func BoxAt(cx, cy, w, h float64) Detection {
	return Detection{
		Box:        geom.Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h},
		Confidence: 0.95,
		Class:      "pizza",
	}
}
