package layout

import (
	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/geom"
)

// LinearPositions computes the stacked layout: panels sorted by creation
// time, x = 0 for every panel, y the running sum of preceding measured
// heights plus one gap per boundary. Unmeasured panels contribute the
// estimate so newly created panels reserve space immediately.
//
// The result maps panel ID to target position; it does not mutate the
// board. Callers apply it wholesale (mode switch) or hand deltas to the
// reflow animator (height change) to avoid visual jumps.
func LinearPositions(panels []*board.Panel, p Params) map[string]geom.Point {
	positions := make(map[string]geom.Point, len(panels))
	y := 0.0
	for _, panel := range panels {
		positions[panel.ID] = geom.Point{X: 0, Y: y}
		y += estimatedHeight(panel, p) + p.Gap
	}
	return positions
}

// ApplyLinear recomputes the full linear stack and writes the positions
// to the board. Used on mode switch and initial load, where an animated
// transition is not wanted.
func ApplyLinear(b *board.Board, p Params) {
	for id, pos := range LinearPositions(b.Panels(), p) {
		b.SetPosition(id, pos)
	}
}

// LinearBottomLimit returns the lowest world-space y of the stack: the
// last panel's bottom edge plus the reserved input-box margin. The
// scroll controller clamps downward panning against this limit.
func LinearBottomLimit(b *board.Board, p Params) float64 {
	panels := b.Panels()
	if len(panels) == 0 {
		return p.BottomMargin
	}
	last := panels[len(panels)-1]
	return last.Position.Y + estimatedHeight(last, p) + p.BottomMargin
}
