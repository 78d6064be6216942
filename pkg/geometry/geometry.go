package geometry

import "math"

// Point is a position in world or screen space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale multiplies both coordinates by s
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Distance returns the Euclidean distance between p and q
func Distance(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// DistanceToSegment returns the shortest distance from p to the segment a-b.
// A zero-length segment collapses to the distance from p to a.
func DistanceToSegment(p, a, b Point) float64 {
	cx := b.X - a.X
	cy := b.Y - a.Y
	lenSq := cx*cx + cy*cy

	t := -1.0
	if lenSq != 0 {
		t = ((p.X-a.X)*cx + (p.Y-a.Y)*cy) / lenSq
	}

	var closest Point
	switch {
	case t < 0:
		closest = a
	case t > 1:
		closest = b
	default:
		closest = Point{X: a.X + t*cx, Y: a.Y + t*cy}
	}

	return Distance(p, closest)
}

// Circle is a circle centred on Center
type Circle struct {
	Center Point
	Radius float64
}

// Contains reports whether p lies strictly inside the circle
func (c Circle) Contains(p Point) bool {
	return Distance(p, c.Center) < c.Radius
}

// Rect is an axis-aligned rectangle centred on Center.
// Corner rounding is a drawing detail and is ignored for containment.
type Rect struct {
	Center Point
	Width  float64
	Height float64
}

// Min returns the top-left corner
func (r Rect) Min() Point {
	return Point{X: r.Center.X - r.Width/2, Y: r.Center.Y - r.Height/2}
}

// Contains reports whether p lies inside the rectangle, edges included
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Center.X-r.Width/2 &&
		p.X <= r.Center.X+r.Width/2 &&
		p.Y >= r.Center.Y-r.Height/2 &&
		p.Y <= r.Center.Y+r.Height/2
}
