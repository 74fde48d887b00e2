package geom

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{1, 1}, Point{1, 1}, 0},
		{"horizontal", Point{0, 0}, Point{3, 0}, 3},
		{"diagonal", Point{0, 0}, Point{3, 4}, 5},
		{"negative coords", Point{-1, -1}, Point{2, 3}, 5},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: Distance(%v, %v) = %f, want %f", tt.name, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRect_Center(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 40, Height: 60}
	c := r.Center()
	if c.X != 30 || c.Y != 50 {
		t.Errorf("Center() = %v, want {30 50}", c)
	}
}

func TestPolygon_Contains(t *testing.T) {
	square := Polygon{{0, 0}, {100, 0}, {100, 100}, {0, 100}}

	tests := []struct {
		name string
		pt   Point
		want bool
	}{
		{"center", Point{50, 50}, true},
		{"outside left", Point{-10, 50}, false},
		{"outside right", Point{110, 50}, false},
		{"far away", Point{1000, 1000}, false},
		{"on left edge", Point{0, 50}, true},
		{"on top edge", Point{50, 0}, true},
		{"on vertex", Point{100, 100}, true},
		{"just inside", Point{99.9, 99.9}, true},
		{"just outside", Point{100.1, 50}, false},
	}
	for _, tt := range tests {
		if got := square.Contains(tt.pt); got != tt.want {
			t.Errorf("%s: Contains(%v) = %v, want %v", tt.name, tt.pt, got, tt.want)
		}
	}
}

func TestPolygon_Contains_Concave(t *testing.T) {
	// A "U" shape: the notch between the arms is outside.
	u := Polygon{{0, 0}, {30, 0}, {30, 20}, {10, 20}, {10, 40}, {30, 40}, {30, 60}, {0, 60}}

	if !u.Contains(Point{5, 30}) {
		t.Error("point in left arm should be inside")
	}
	if u.Contains(Point{20, 30}) {
		t.Error("point in the notch should be outside")
	}
}

func TestPolygon_Contains_Degenerate(t *testing.T) {
	if (Polygon{}).Contains(Point{0, 0}) {
		t.Error("empty polygon should contain nothing")
	}
	if (Polygon{{0, 0}, {10, 10}}).Contains(Point{5, 5}) {
		t.Error("two-vertex polygon should contain nothing")
	}
}

func TestPolygon_Area(t *testing.T) {
	square := Polygon{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	if got := square.Area(); math.Abs(got-10000) > 1e-9 {
		t.Errorf("square Area() = %f, want 10000", got)
	}

	// Reversed winding must give the same absolute area.
	reversed := Polygon{{0, 100}, {100, 100}, {100, 0}, {0, 0}}
	if got := reversed.Area(); math.Abs(got-10000) > 1e-9 {
		t.Errorf("reversed square Area() = %f, want 10000", got)
	}

	triangle := Polygon{{0, 0}, {10, 0}, {0, 10}}
	if got := triangle.Area(); math.Abs(got-50) > 1e-9 {
		t.Errorf("triangle Area() = %f, want 50", got)
	}

	// Collinear vertices enclose no area.
	line := Polygon{{0, 0}, {10, 10}, {20, 20}}
	if got := line.Area(); got != 0 {
		t.Errorf("collinear Area() = %f, want 0", got)
	}
}
