// Package geom provides the coordinate primitives for the board engine.
//
// All board state lives in world coordinates (top-left origin, y growing
// downward). The renderer and input handlers work in screen coordinates.
// The two spaces are related by an affine pan/zoom transform captured in
// [Viewport]: screen = world*zoom + pan.
//
// Everything in this package is pure value math with no side effects, so
// it can be used freely by layout, animation, and navigation code without
// ordering concerns.
package geom

// Point is a position in either world or screen space.
// The space is determined by context, not by the type.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p with both components multiplied by s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle identified by its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Union returns the smallest rectangle covering both r and s.
// If r is empty (zero width and height) s is returned unchanged, and
// vice versa, so Union can be used to fold a bounding box over a set.
func (r Rect) Union(s Rect) Rect {
	if r.Width == 0 && r.Height == 0 {
		return s
	}
	if s.Width == 0 && s.Height == 0 {
		return r
	}
	minX := min(r.X, s.X)
	minY := min(r.Y, s.Y)
	maxX := max(r.Right(), s.Right())
	maxY := max(r.Bottom(), s.Bottom())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
