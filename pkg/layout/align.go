package layout

import "github.com/tilegrid/boardflow/pkg/geom"

// Alignment is the derived horizontal placement of the panel stack.
// It is recomputed on every layout pass and never persisted.
type Alignment struct {
	// LeftGap is the computed clearance between the left boundary and
	// the stack when left-aligned (zero when centered).
	LeftGap float64

	// Centered reports whether the stack is centered in the available
	// width instead of pushed against the left boundary.
	Centered bool

	// StackWidth is the effective stack width the policy reserved,
	// already capped at the maximum.
	StackWidth float64

	// OffsetX is the resulting screen-space x of the stack's left edge.
	// The engine applies it to the viewport, never to panel positions.
	OffsetX float64
}

// EffectiveOverview returns where the overview widget actually sits for
// this pass. The overview relocates vertically (above the input box)
// when the input box's right edge crowds its resting position; alignment
// and minimap projection both use the relocated rectangle.
func EffectiveOverview(snap GeometrySnapshot, p Params) geom.Rect {
	ov := snap.Overview
	if snap.InputBox.Right()+p.OverviewCrowdThreshold >= ov.X {
		ov.Y = snap.InputBox.Y - ov.Height - p.OverviewCrowdThreshold
		if ov.Y < 0 {
			ov.Y = 0
		}
	}
	return ov
}

// ComputeAlignment decides between left-aligned and centered placement
// of the panel stack.
//
// The left boundary is the sidebar's right edge. The candidate left gap
// is half the clearance between that boundary and the overview's left
// edge, minus half the stack width, clamped to zero. If left-aligning
// with that gap would leave less clearance on the right than the gap
// itself, the stack is centered in the available width (minus the fixed
// symmetric margin) instead.
func ComputeAlignment(snap GeometrySnapshot, p Params) Alignment {
	leftBoundary := snap.Sidebar.Right()
	overview := EffectiveOverview(snap, p)

	stackWidth := min(snap.InputBox.Width, p.MaxStackWidth)

	clearance := overview.X - leftBoundary
	leftGap := max(clearance/2-stackWidth/2, 0)

	rightClearance := snap.Canvas.Width - (leftBoundary + leftGap + stackWidth)

	a := Alignment{LeftGap: leftGap, StackWidth: stackWidth}
	if rightClearance < leftGap {
		a.Centered = true
		a.LeftGap = 0
		avail := snap.Canvas.Width - leftBoundary - 2*p.CenterMargin
		a.OffsetX = leftBoundary + p.CenterMargin + max(avail-stackWidth, 0)/2
	} else {
		a.OffsetX = leftBoundary + leftGap
	}
	return a
}
