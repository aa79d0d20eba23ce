package layout

import (
	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/geom"
)

// estimatedHeight returns the height to use for placement math: the
// measured height when known, the estimate otherwise.
func estimatedHeight(p *board.Panel, params Params) float64 {
	if p == nil {
		return params.EstimatedHeight
	}
	if p.Measured || p.MeasuredHeight > 0 {
		return p.MeasuredHeight
	}
	return params.EstimatedHeight
}

// CanvasPlacement computes the position for one new panel relative to an
// anchor. The anchor may be nil, in which case the panel lands at the
// horizontally centered default, offset vertically by the number of
// panels already on the board.
func CanvasPlacement(anchor *board.Panel, dir board.ArrowDirection, priorCount int, p Params) geom.Point {
	if anchor == nil {
		return geom.Point{
			X: -p.PanelWidth / 2,
			Y: float64(priorCount) * p.DefaultVerticalStep,
		}
	}

	ax, ay := anchor.Position.X, anchor.Position.Y
	switch dir {
	case board.DirectionUp:
		return geom.Point{X: ax, Y: ay - p.EstimatedHeight - p.Gap}
	case board.DirectionLeft:
		return geom.Point{X: ax - p.PanelWidth - p.Gap, Y: ay}
	case board.DirectionRight:
		return geom.Point{X: ax + p.PanelWidth + p.Gap, Y: ay}
	default: // down
		return geom.Point{X: ax, Y: ay + estimatedHeight(anchor, p) + p.Gap}
	}
}

// PlaceCreated positions a batch of newly created panels in canvas mode.
// Panels with a cached position take it verbatim; the rest are stacked
// along the arrow direction starting from the first computed placement,
// separated by the standard gap.
//
// The anchor is the currently selected panel if any, else the most
// recently created panel that is not itself part of the batch.
func PlaceCreated(b *board.Board, created []string, anchor *board.Panel, dir board.ArrowDirection, cached map[string]geom.Point, p Params) {
	if len(created) == 0 {
		return
	}

	var prev *board.Panel
	for i, id := range created {
		panel, ok := b.Panel(id)
		if !ok {
			continue
		}
		if pos, hit := cached[id]; hit {
			b.SetPosition(id, pos)
			prev = panel
			continue
		}

		var pos geom.Point
		if i == 0 || prev == nil {
			prior := b.PanelCount() - len(created)
			if prior < 0 {
				prior = 0
			}
			pos = CanvasPlacement(anchor, dir, prior, p)
		} else {
			pos = CanvasPlacement(prev, dir, 0, p)
		}
		b.SetPosition(id, pos)
		prev = panel
	}
}
