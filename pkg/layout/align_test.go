package layout

import (
	"testing"

	"github.com/tilegrid/boardflow/pkg/geom"
)

// snap builds a snapshot with the given canvas width, input box width
// (the stack width source) and overview left edge. No sidebar.
func snap(canvasW, stackW, overviewLeft float64) GeometrySnapshot {
	return GeometrySnapshot{
		Canvas:   geom.Size{Width: canvasW, Height: 900},
		InputBox: geom.Rect{X: 0, Y: 700, Width: stackW, Height: 120},
		Overview: geom.Rect{X: overviewLeft, Y: 720, Width: 220, Height: 150},
	}
}

func TestComputeAlignmentThreshold(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name         string
		canvasW      float64
		stackW       float64
		overviewLeft float64
		wantCentered bool
	}{
		// Overview far right, narrow stack: left-aligning leaves ample
		// right clearance, so the stack stays left-aligned.
		// leftGap = 1800/2 - 300 = 600; right = 2000-600-600 = 800 >= 600.
		{"LeftAligned", 2000, 600, 1800, false},

		// Narrow canvas with the overview far out: the left gap eats
		// most of the width and right clearance goes negative.
		// leftGap = 1900/2 - 350 = 600; right = 1200-600-700 = -100 < 600.
		{"Centered", 1200, 700, 1900, true},

		// Comfortable right clearance well above the gap.
		// leftGap = 1200/2 - 200 = 400; right = 1600-400-400 = 800 >= 400.
		{"WideRightStaysLeft", 1600, 400, 1200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ComputeAlignment(snap(tt.canvasW, tt.stackW, tt.overviewLeft), p)
			if a.Centered != tt.wantCentered {
				t.Errorf("Centered = %v, want %v (leftGap=%v stack=%v)",
					a.Centered, tt.wantCentered, a.LeftGap, a.StackWidth)
			}
		})
	}
}

func TestComputeAlignmentLeftGapClamped(t *testing.T) {
	p := DefaultParams()
	// Overview immediately at the boundary: clearance/2 < stack/2, the
	// raw gap would be negative and must clamp to zero.
	a := ComputeAlignment(snap(2000, 700, 100), p)
	if a.LeftGap != 0 && !a.Centered {
		t.Errorf("LeftGap = %v, want 0", a.LeftGap)
	}
}

func TestComputeAlignmentStackWidthCap(t *testing.T) {
	p := DefaultParams()
	a := ComputeAlignment(snap(3000, 5000, 2800), p)
	if a.StackWidth != p.MaxStackWidth {
		t.Errorf("StackWidth = %v, want cap %v", a.StackWidth, p.MaxStackWidth)
	}
}

func TestComputeAlignmentSidebarShiftsBoundary(t *testing.T) {
	p := DefaultParams()
	s := snap(2000, 600, 1800)

	base := ComputeAlignment(s, p)

	s.Sidebar = geom.Rect{X: 0, Y: 0, Width: 280, Height: 900}
	shifted := ComputeAlignment(s, p)

	if shifted.OffsetX <= base.OffsetX {
		t.Errorf("sidebar ignored: base offset %v, shifted offset %v", base.OffsetX, shifted.OffsetX)
	}
}

func TestEffectiveOverviewRelocates(t *testing.T) {
	p := DefaultParams()

	apart := GeometrySnapshot{
		Canvas:   geom.Size{Width: 1440, Height: 900},
		InputBox: geom.Rect{X: 100, Y: 700, Width: 400, Height: 120},
		Overview: geom.Rect{X: 1200, Y: 720, Width: 220, Height: 150},
	}
	if got := EffectiveOverview(apart, p); got != apart.Overview {
		t.Errorf("overview moved without crowding: %+v", got)
	}

	crowded := apart
	crowded.InputBox.Width = 1100 // right edge at 1200, inside threshold
	got := EffectiveOverview(crowded, p)
	if got.Y >= crowded.Overview.Y {
		t.Errorf("overview did not relocate upward: y = %v", got.Y)
	}
	if got.X != crowded.Overview.X {
		t.Errorf("overview moved horizontally: x = %v", got.X)
	}
}

func TestCaptureDefaults(t *testing.T) {
	s := Capture(nil)

	if s.Canvas.Width != DefaultCanvasWidth || s.Canvas.Height != DefaultCanvasHeight {
		t.Errorf("canvas = %+v, want defaults", s.Canvas)
	}
	if s.InputBox.Width == 0 || s.Overview.Width == 0 {
		t.Error("defaults not populated for chrome elements")
	}
	if len(s.Degraded) != 3 {
		t.Errorf("degraded = %v, want all three elements", s.Degraded)
	}
}

func TestCaptureUsesEnvironment(t *testing.T) {
	env := &FixedEnvironment{
		Canvas: geom.Size{Width: 800, Height: 600},
		Elements: map[string]geom.Rect{
			ElementInputBox: {X: 10, Y: 500, Width: 300, Height: 80},
		},
	}

	s := Capture(env)

	if s.InputBox != (geom.Rect{X: 10, Y: 500, Width: 300, Height: 80}) {
		t.Errorf("input box = %+v, want environment value", s.InputBox)
	}
	// Overview and sidebar fall back to defaults.
	if s.Overview.Width != 220 {
		t.Errorf("overview width = %v, want default", s.Overview.Width)
	}
}
