package layout

import (
	"github.com/tilegrid/boardflow/pkg/anim"
	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/geom"
)

// ReflowShifts computes the animated moves caused by a panel's height
// changing by delta. Every panel strictly below the changed panel
// translates vertically by the delta; panels at or above it, and the
// changed panel itself, stay put. Growth pushes followers down
// (positive delta), shrink pulls them up.
//
// The changed panel keeps its own position, so the board never jumps
// under the content the user is looking at.
func ReflowShifts(b *board.Board, changedID string, delta float64) []anim.Move {
	changed, ok := b.Panel(changedID)
	if !ok || delta == 0 {
		return nil
	}

	var moves []anim.Move
	for _, p := range b.Panels() {
		if p.ID == changedID {
			continue
		}
		if p.Position.Y <= changed.Position.Y {
			continue
		}
		moves = append(moves, anim.Move{
			ID:   p.ID,
			From: p.Position,
			To:   geom.Point{X: p.Position.X, Y: p.Position.Y + delta},
		})
	}
	return moves
}
