package scroll

import (
	"math"
	"testing"

	"github.com/tilegrid/boardflow/pkg/geom"
)

func canvasCtx() Context {
	return Context{Canvas: geom.Size{Width: 1440, Height: 900}}
}

func linearCtx() Context {
	return Context{
		Linear:       true,
		OffsetX:      340,
		BottomLimit:  2400,
		StackCenterX: 720,
		Canvas:       geom.Size{Width: 1440, Height: 900},
	}
}

func TestUnmodifiedWheelPansInScrollSubMode(t *testing.T) {
	var c Controller
	view := geom.Viewport{X: 100, Y: 50, Zoom: 1}

	out := c.Apply(view, Wheel{DeltaX: 30, DeltaY: 80}, canvasCtx())

	if out.X != 70 || out.Y != -30 {
		t.Errorf("got pan (%v, %v), want (70, -30)", out.X, out.Y)
	}
	if out.Zoom != view.Zoom {
		t.Errorf("zoom changed on pan: %v", out.Zoom)
	}
}

func TestUnmodifiedWheelZoomsInZoomSubMode(t *testing.T) {
	var c Controller
	c.SetSubMode(SubModeZoom)
	view := geom.Viewport{Zoom: 1}
	cursor := geom.Point{X: 700, Y: 400}

	worldBefore := view.ToWorld(cursor)
	out := c.Apply(view, Wheel{DeltaY: -120, Cursor: cursor}, canvasCtx())

	if out.Zoom <= view.Zoom {
		t.Errorf("negative delta should zoom in, got %v", out.Zoom)
	}
	worldAfter := out.ToWorld(cursor)
	if math.Abs(worldAfter.X-worldBefore.X) > 1e-9 || math.Abs(worldAfter.Y-worldBefore.Y) > 1e-9 {
		t.Errorf("cursor anchor drifted: %+v -> %+v", worldBefore, worldAfter)
	}
}

func TestModifierWheelAlwaysZooms(t *testing.T) {
	var c Controller // scroll sub-mode
	view := geom.Viewport{Zoom: 1}

	out := c.Apply(view, Wheel{DeltaY: -120, Modifier: true, Cursor: geom.Point{X: 10, Y: 10}}, canvasCtx())

	if out.Zoom <= view.Zoom {
		t.Errorf("modifier wheel did not zoom, got %v", out.Zoom)
	}
}

func TestZoomClampedAtLimits(t *testing.T) {
	var c Controller
	view := geom.Viewport{Zoom: geom.MaxZoom}

	out := c.Apply(view, Wheel{DeltaY: -10000, Modifier: true}, canvasCtx())
	if out.Zoom != geom.MaxZoom {
		t.Errorf("zoom exceeded max: %v", out.Zoom)
	}

	view.Zoom = geom.MinZoom
	out = c.Apply(view, Wheel{DeltaY: 10000, Modifier: true}, canvasCtx())
	if out.Zoom != geom.MinZoom {
		t.Errorf("zoom under min: %v", out.Zoom)
	}
}

func TestLinearPanIsVerticalOnlyAndRePinned(t *testing.T) {
	var c Controller
	c.SetSubMode(SubModeZoom) // ignored in linear: unmodified wheel pans
	view := geom.Viewport{X: 999, Y: 0, Zoom: 1}

	out := c.Apply(view, Wheel{DeltaX: 50, DeltaY: 100}, linearCtx())

	if out.X != 340 {
		t.Errorf("x = %v, want re-pinned alignment offset 340", out.X)
	}
	if out.Y != -100 {
		t.Errorf("y = %v, want -100", out.Y)
	}
	if out.Zoom != 1 {
		t.Errorf("linear unmodified wheel zoomed: %v", out.Zoom)
	}
}

func TestLinearBottomClamp(t *testing.T) {
	var c Controller
	ctx := linearCtx()
	view := geom.Viewport{X: ctx.OffsetX, Y: 0, Zoom: 1}

	// Scroll far past the end in several steps; the bottom limit must
	// never rise above the canvas bottom.
	for i := 0; i < 10; i++ {
		view = c.Apply(view, Wheel{DeltaY: 500}, ctx)
	}

	limitScreen := view.ToScreen(geom.Point{Y: ctx.BottomLimit}).Y
	if limitScreen < ctx.Canvas.Height {
		t.Errorf("scrolled past bottom limit: limit at screen y %v, canvas height %v", limitScreen, ctx.Canvas.Height)
	}
	wantY := ctx.Canvas.Height - ctx.BottomLimit*view.Zoom
	if view.Y != wantY {
		t.Errorf("y = %v, want clamped %v", view.Y, wantY)
	}
}

func TestLinearScrollUpUnclamped(t *testing.T) {
	var c Controller
	ctx := linearCtx()
	view := geom.Viewport{X: ctx.OffsetX, Y: -300, Zoom: 1}

	out := c.Apply(view, Wheel{DeltaY: -200}, ctx)
	if out.Y != -100 {
		t.Errorf("y = %v, want -100", out.Y)
	}
}

func TestLinearModifierZoomAnchorsStackCenter(t *testing.T) {
	var c Controller
	ctx := linearCtx()
	view := geom.Viewport{X: ctx.OffsetX, Y: -500, Zoom: 1}
	cursor := geom.Point{X: 200, Y: 450} // far from the stack center

	anchor := geom.Point{X: ctx.StackCenterX, Y: cursor.Y}
	worldBefore := view.ToWorld(anchor)

	out := c.Apply(view, Wheel{DeltaY: -120, Modifier: true, Cursor: cursor}, ctx)

	if out.Zoom <= view.Zoom {
		t.Fatalf("modifier wheel did not zoom in linear mode: %v", out.Zoom)
	}
	worldAfter := out.ToWorld(anchor)
	if math.Abs(worldAfter.X-worldBefore.X) > 1e-9 || math.Abs(worldAfter.Y-worldBefore.Y) > 1e-9 {
		t.Errorf("stack-center anchor drifted: %+v -> %+v", worldBefore, worldAfter)
	}
}

func TestSubModeRoundTrip(t *testing.T) {
	var c Controller
	if c.SubMode() != SubModeScroll {
		t.Errorf("default sub-mode = %v, want scroll", c.SubMode())
	}
	c.SetSubMode(SubModeZoom)
	if c.SubMode() != SubModeZoom {
		t.Errorf("sub-mode = %v, want zoom", c.SubMode())
	}
}
