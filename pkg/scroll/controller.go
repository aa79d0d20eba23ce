package scroll

import (
	"math"

	"github.com/tilegrid/boardflow/pkg/geom"
)

// SubMode selects what an unmodified wheel does in canvas mode.
type SubMode int

const (
	// SubModeScroll pans on unmodified wheel input. The default.
	SubModeScroll SubMode = iota

	// SubModeZoom zooms on unmodified wheel input. Canvas mode only;
	// linear mode pans regardless of sub-mode.
	SubModeZoom
)

// DefaultZoomSensitivity converts wheel delta units into an exponential
// zoom factor: factor = exp(-delta * sensitivity).
const DefaultZoomSensitivity = 0.0015

// Wheel is one wheel event in screen coordinates.
type Wheel struct {
	DeltaX   float64
	DeltaY   float64
	Cursor   geom.Point
	Modifier bool // zoom modifier key held
}

// Context carries the per-event layout state the controller needs.
// Linear is false for canvas mode.
type Context struct {
	Linear bool

	// OffsetX is the alignment policy's horizontal viewport offset;
	// linear mode re-pins the viewport to it on every pan.
	OffsetX float64

	// BottomLimit is the world-space y past which linear scrolling
	// clamps (last panel bottom plus the input-box margin).
	BottomLimit float64

	// StackCenterX is the screen-space x of the linear stack's center,
	// the horizontal zoom anchor in linear mode.
	StackCenterX float64

	Canvas geom.Size // canvas size in screen pixels
}

// Controller holds the scroll/zoom sub-mode and maps wheel events to
// viewport updates. The zero value is ready to use.
type Controller struct {
	subMode SubMode

	// ZoomSensitivity overrides DefaultZoomSensitivity when positive.
	ZoomSensitivity float64
}

// SubMode returns the active sub-mode.
func (c *Controller) SubMode() SubMode { return c.subMode }

// SetSubMode switches what unmodified wheel input does.
func (c *Controller) SetSubMode(m SubMode) { c.subMode = m }

// Apply maps one wheel event onto the viewport.
//
// A modifier wheel always zooms: cursor-anchored in canvas mode,
// anchored at the stack's horizontal center in linear mode with the
// vertical anchor following the cursor. An unmodified wheel zooms only
// in canvas mode under SubModeZoom; everything else pans.
func (c *Controller) Apply(view geom.Viewport, w Wheel, ctx Context) geom.Viewport {
	zooming := w.Modifier || (!ctx.Linear && c.subMode == SubModeZoom)

	if zooming {
		anchor := w.Cursor
		if ctx.Linear {
			anchor.X = ctx.StackCenterX
		}
		out := view.ZoomAround(anchor, view.Zoom*c.zoomFactor(w.DeltaY))
		if ctx.Linear {
			out = clampLinearBottom(out, ctx)
		}
		return out
	}

	if ctx.Linear {
		out := view.Pan(0, -w.DeltaY)
		out.X = ctx.OffsetX
		return clampLinearBottom(out, ctx)
	}
	return view.Pan(-w.DeltaX, -w.DeltaY)
}

func (c *Controller) zoomFactor(delta float64) float64 {
	s := c.ZoomSensitivity
	if s <= 0 {
		s = DefaultZoomSensitivity
	}
	return math.Exp(-delta * s)
}

// clampLinearBottom keeps the bottom limit from rising above the bottom
// edge of the canvas. Scrolling past the end clamps instead of erroring.
func clampLinearBottom(view geom.Viewport, ctx Context) geom.Viewport {
	if ctx.Canvas.Height <= 0 {
		return view
	}
	minY := ctx.Canvas.Height - ctx.BottomLimit*view.Zoom
	if view.Y < minY {
		view.Y = minY
	}
	return view
}
