// Package geom provides the geometric primitives used by the tracking and
// counting engine: points, boxes, Euclidean distance and polygon tests.
package geom

import "math"

// Point is a location in frame pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned bounding box in frame pixel coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the centroid of the box.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Polygon is an ordered list of vertices. It is implicitly closed: the last
// vertex connects back to the first.
type Polygon []Point

// Area returns the absolute area of the polygon (shoelace formula).
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	sum := 0.0
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return math.Abs(sum) / 2
}

// Contains reports whether pt is inside the polygon, using a ray-casting
// test. Points exactly on an edge or vertex are treated as inside, so that
// a centroid sitting on a zone border does not flicker between states.
func (p Polygon) Contains(pt Point) bool {
	if len(p) < 3 {
		return false
	}
	for i := range p {
		j := (i + 1) % len(p)
		if onSegment(pt, p[i], p[j]) {
			return true
		}
	}
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether pt lies on the segment from a to b.
func onSegment(pt, a, b Point) bool {
	cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
	if math.Abs(cross) > 1e-9*(math.Abs(b.X-a.X)+math.Abs(b.Y-a.Y)+1) {
		return false
	}
	return pt.X >= math.Min(a.X, b.X)-1e-9 && pt.X <= math.Max(a.X, b.X)+1e-9 &&
		pt.Y >= math.Min(a.Y, b.Y)-1e-9 && pt.Y <= math.Max(a.Y, b.Y)+1e-9
}
