package detector

import (
	"errors"
	"testing"

	"github.com/Hihi1310/pizza-counter/internal/geom"
)

func boxXYWH(x, y, w, h float64) geom.Rect {
	return geom.Rect{X: x, Y: y, Width: w, Height: h}
}

func TestDetection_Valid(t *testing.T) {
	tests := []struct {
		name string
		det  Detection
		want bool
	}{
		{"normal", BoxAt(100, 100, 50, 50), true},
		{"zero width", Detection{Box: boxXYWH(0, 0, 0, 10), Confidence: 0.9}, false},
		{"zero height", Detection{Box: boxXYWH(0, 0, 10, 0), Confidence: 0.9}, false},
		{"negative width", Detection{Box: boxXYWH(0, 0, -5, 10), Confidence: 0.9}, false},
		{"confidence above one", Detection{Box: boxXYWH(0, 0, 10, 10), Confidence: 1.5}, false},
		{"negative confidence", Detection{Box: boxXYWH(0, 0, 10, 10), Confidence: -0.1}, false},
		{"confidence exactly one", Detection{Box: boxXYWH(0, 0, 10, 10), Confidence: 1.0}, true},
		{"confidence exactly zero", Detection{Box: boxXYWH(0, 0, 10, 10), Confidence: 0}, true},
	}
	for _, tt := range tests {
		if got := tt.det.Valid(); got != tt.want {
			t.Errorf("%s: Valid() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDetection_Centroid(t *testing.T) {
	d := BoxAt(200, 150, 60, 40)
	c := d.Centroid()
	if c.X != 200 || c.Y != 150 {
		t.Errorf("Centroid() = %v, want {200 150}", c)
	}
}

func TestMockDetector_ReplaysFrames(t *testing.T) {
	m := NewMockDetector()
	m.SetFrames([][]Detection{
		{BoxAt(10, 10, 4, 4)},
		{BoxAt(20, 20, 4, 4), BoxAt(30, 30, 4, 4)},
		nil,
	})

	dets, err := m.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("frame 1: got %d detections, want 1", len(dets))
	}

	dets, _ = m.Detect(nil)
	if len(dets) != 2 {
		t.Fatalf("frame 2: got %d detections, want 2", len(dets))
	}

	dets, _ = m.Detect(nil)
	if len(dets) != 0 {
		t.Fatalf("frame 3: got %d detections, want 0", len(dets))
	}

	// Exhausted sequence keeps returning empty sets.
	dets, _ = m.Detect(nil)
	if len(dets) != 0 {
		t.Fatalf("after sequence: got %d detections, want 0", len(dets))
	}
}

func TestMockDetector_Error(t *testing.T) {
	m := NewMockDetector()
	want := errors.New("camera unplugged")
	m.SetError(want)

	if _, err := m.Detect(nil); !errors.Is(err, want) {
		t.Errorf("Detect() error = %v, want %v", err, want)
	}
}
