package geom

// Default zoom limits. Callers can override via [Viewport.ClampZoomTo],
// but every code path that mutates zoom must clamp into some range.
const (
	MinZoom = 0.25
	MaxZoom = 2.0
)

// Viewport is the affine pan/zoom state mapping world to screen space:
//
//	screen = world*Zoom + (X, Y)
//
// X and Y are the screen-space position of the world origin. Zoom must be
// kept within [MinZoom, MaxZoom]; use ClampZoom after any mutation.
//
// Viewport is a plain value. All methods return new values rather than
// mutating, so intermediate transforms can be computed speculatively
// (e.g. when deciding whether a scroll delta would exceed a clamp limit).
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// NewViewport returns a viewport at the origin with zoom 1.
func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

// ToScreen projects a world-space point into screen space.
// Inputs are assumed finite; callers guard against non-finite viewport
// values before invoking.
func (v Viewport) ToScreen(world Point) Point {
	return Point{
		X: world.X*v.Zoom + v.X,
		Y: world.Y*v.Zoom + v.Y,
	}
}

// ToWorld is the inverse of ToScreen.
func (v Viewport) ToWorld(screen Point) Point {
	return Point{
		X: (screen.X - v.X) / v.Zoom,
		Y: (screen.Y - v.Y) / v.Zoom,
	}
}

// ToScreenRect projects a world-space rectangle into screen space.
func (v Viewport) ToScreenRect(world Rect) Rect {
	tl := v.ToScreen(Point{X: world.X, Y: world.Y})
	return Rect{X: tl.X, Y: tl.Y, Width: world.Width * v.Zoom, Height: world.Height * v.Zoom}
}

// Pan returns the viewport translated by (dx, dy) in screen space.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// ZoomAround returns the viewport with zoom set to newZoom, keeping the
// world point under the given screen anchor fixed in place. This is the
// primitive behind cursor-anchored wheel zooming: the anchor stays put
// while everything else scales around it.
func (v Viewport) ZoomAround(anchor Point, newZoom float64) Viewport {
	newZoom = Clamp(newZoom, MinZoom, MaxZoom)
	world := v.ToWorld(anchor)
	v.Zoom = newZoom
	v.X = anchor.X - world.X*newZoom
	v.Y = anchor.Y - world.Y*newZoom
	return v
}

// ClampZoom returns the viewport with zoom limited to [MinZoom, MaxZoom].
func (v Viewport) ClampZoom() Viewport {
	v.Zoom = Clamp(v.Zoom, MinZoom, MaxZoom)
	return v
}

// CenterOn returns the viewport panned so that the given world point maps
// to the given screen point, leaving zoom unchanged.
func (v Viewport) CenterOn(world, screen Point) Viewport {
	v.X = screen.X - world.X*v.Zoom
	v.Y = screen.Y - world.Y*v.Zoom
	return v
}

// FitRect returns a viewport that shows the whole world rectangle inside
// the given screen area with the given margin on every side. Zoom is
// clamped to the global limits, so a very large world rect may still not
// fit entirely; the rect center stays centered regardless.
func FitRect(world Rect, screen Size, margin float64) Viewport {
	if world.Width <= 0 || world.Height <= 0 {
		return NewViewport()
	}
	availW := screen.Width - 2*margin
	availH := screen.Height - 2*margin
	if availW <= 0 || availH <= 0 {
		return NewViewport()
	}
	zoom := Clamp(min(availW/world.Width, availH/world.Height), MinZoom, MaxZoom)
	v := Viewport{Zoom: zoom}
	return v.CenterOn(world.Center(), Point{X: screen.Width / 2, Y: screen.Height / 2})
}
