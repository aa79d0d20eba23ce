package engine

import (
	"context"
	"time"

	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/errors"
	"github.com/tilegrid/boardflow/pkg/geom"
	"github.com/tilegrid/boardflow/pkg/layout"
	"github.com/tilegrid/boardflow/pkg/minimap"
	"github.com/tilegrid/boardflow/pkg/observability"
	"github.com/tilegrid/boardflow/pkg/scroll"
)

// =============================================================================
// Edges
// =============================================================================

// CreateEdge adds an edge optimistically and persists it. A duplicate
// is a local no-op. On persistence failure the edge is rolled back -
// keyed off the edge id, so a stale failure cannot remove an edge the
// user has since recreated differently.
func (e *Engine) CreateEdge(ctx context.Context, source, target, style string) (board.Edge, error) {
	if !e.loaded {
		return board.Edge{}, errNotLoaded()
	}
	edge, created, err := e.board.AddEdge(source, target, style)
	if err != nil {
		return board.Edge{}, errors.Wrap(errors.ErrCodeInvalidEdge, err, "create edge %s -> %s", source, target)
	}
	if !created {
		// Already present locally; the store insert would be a
		// duplicate, which the backend treats as success anyway.
		e.opts.Logger.Debug("duplicate edge ignored",
			"code", errors.ErrCodeConstraintViolation, "edge", edge.ID)
		return edge, nil
	}

	rec := e.edgeRecord(edge)
	e.opts.Runner(func() {
		err := e.opts.Edges.Create(ctx, rec)
		observability.Store().OnEdgeCreate(ctx, rec.Conversation, err)
		if err == nil {
			return
		}
		e.opts.Logger.Warn("edge persist failed, rolling back", "edge", edge.ID, "err", err)
		if e.loaded && e.board.Conversation() == rec.Conversation {
			e.board.RemoveEdge(edge.ID)
		}
		observability.Store().OnRollback(ctx, rec.Conversation, "edge-create")
		e.opts.Notify("Could not save the connection. Please try again.")
	})
	return edge, nil
}

// DeleteEdge removes an edge optimistically and persists the delete.
// On failure the edge is restored, provided both endpoints still exist.
func (e *Engine) DeleteEdge(ctx context.Context, edgeID string) error {
	if !e.loaded {
		return errNotLoaded()
	}
	edge, ok := e.board.Edge(edgeID)
	if !ok {
		return errors.New(errors.ErrCodeEdgeNotFound, "edge %s", edgeID)
	}
	e.board.RemoveEdge(edgeID)

	rec := e.edgeRecord(edge)
	e.opts.Runner(func() {
		err := e.opts.Edges.Delete(ctx, rec.Conversation, rec.Source, rec.Target)
		observability.Store().OnEdgeDelete(ctx, rec.Conversation, err)
		if err == nil {
			return
		}
		e.opts.Logger.Warn("edge delete failed, restoring", "edge", edge.ID, "err", err)
		if e.loaded && e.board.Conversation() == rec.Conversation {
			// Restore keyed off current ids: skip if an endpoint is gone.
			if _, _, addErr := e.board.AddEdge(edge.Source, edge.Target, edge.Style); addErr != nil {
				e.opts.Logger.Debug("rollback skipped, endpoint gone", "edge", edge.ID)
			}
		}
		observability.Store().OnRollback(ctx, rec.Conversation, "edge-delete")
		e.opts.Notify("Could not remove the connection. Please try again.")
	})
	return nil
}

// ReloadEdges replaces local edges with the persisted list, the recovery
// path when optimistic state and the store may have diverged. Records
// referencing missing panels are dropped silently.
func (e *Engine) ReloadEdges(ctx context.Context) error {
	if !e.loaded {
		return errNotLoaded()
	}
	records, err := e.opts.Edges.List(ctx, e.board.Conversation())
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransientIO, err, "reload edges")
	}
	for _, edge := range e.board.Edges() {
		e.board.RemoveEdge(edge.ID)
	}
	for _, rec := range records {
		if _, _, err := e.board.AddEdge(rec.Source, rec.Target, rec.Style); err != nil {
			e.opts.Logger.Debug("pruning dangling edge",
				"code", errors.ErrCodeDanglingReference, "source", rec.Source, "target", rec.Target)
		}
	}
	return nil
}

// =============================================================================
// Collapse / expand
// =============================================================================

// ToggleComponent applies the bulk toggle policy to a panel's connected
// component: if every panel is expanded, collapse them all; otherwise
// expand only the collapsed ones. Returns the affected panel ids.
func (e *Engine) ToggleComponent(ctx context.Context, panelID string) ([]string, error) {
	if !e.loaded {
		return nil, errNotLoaded()
	}
	if _, ok := e.board.Panel(panelID); !ok {
		return nil, errors.New(errors.ErrCodePanelNotFound, "panel %s", panelID)
	}
	changed := e.board.ToggleComponent(panelID)
	e.RecomputeLayout(ctx, TriggerContent)
	return changed, nil
}

// ExpandComponent expands every collapsed panel in a component.
// Idempotent: a second call changes nothing.
func (e *Engine) ExpandComponent(ctx context.Context, panelID string) ([]string, error) {
	if !e.loaded {
		return nil, errNotLoaded()
	}
	if _, ok := e.board.Panel(panelID); !ok {
		return nil, errors.New(errors.ErrCodePanelNotFound, "panel %s", panelID)
	}
	changed := e.board.ExpandComponent(panelID)
	e.RecomputeLayout(ctx, TriggerContent)
	return changed, nil
}

// =============================================================================
// Measurement and reflow
// =============================================================================

// PanelMeasured records a panel's rendered height. When the change
// exceeds the noise threshold, every panel below it slides by the delta
// in an eased animation; panels above it never move. A measurement
// arriving mid-animation retargets from the interpolated positions.
func (e *Engine) PanelMeasured(ctx context.Context, panelID string, height float64) {
	if !e.loaded {
		return
	}
	delta, reflow := e.board.RecordMeasuredHeight(panelID, height)
	if !reflow {
		return
	}

	moves := layout.ReflowShifts(e.board, panelID, delta)
	if len(moves) == 0 {
		return
	}

	// Commit the shifted positions up front: board state is always the
	// settled layout, so a measurement landing mid-flight computes its
	// targets from here and never compounds an un-finished shift. The
	// animation is purely visual - it runs from the old positions (or
	// the interpolated ones, when superseding) toward what the board
	// already says, and hosts read frames through RenderPosition.
	for _, m := range moves {
		e.board.SetPosition(m.ID, m.To)
	}
	e.storePositions()

	observability.Animation().OnReflowStart(ctx, len(moves), delta)
	started := time.Now()
	e.animator.Begin(moves,
		func(map[string]geom.Point) {},
		func(map[string]geom.Point) {
			observability.Animation().OnReflowComplete(ctx, time.Since(started))
		})
}

// RenderPosition returns where a panel should be drawn this frame: the
// interpolated position while a reflow is running, the authoritative
// board position otherwise.
func (e *Engine) RenderPosition(id string) (geom.Point, bool) {
	if !e.loaded {
		return geom.Point{}, false
	}
	if p, ok := e.animator.Current(id); ok {
		return p, true
	}
	if panel, ok := e.board.Panel(id); ok {
		return panel.Position, true
	}
	return geom.Point{}, false
}

// Reflowing reports whether a reflow animation is in flight.
func (e *Engine) Reflowing() bool { return e.animator.Animating() }

// =============================================================================
// Mode switching
// =============================================================================

// SetMode switches between canvas and linear layout. Canvas positions
// are snapshotted before entering linear and restored on the way back,
// so a round trip is lossless. Panels created while linear have no
// snapshot entry and get the anchor-based canvas default instead of
// their linear stack coordinates. An in-flight reflow is abandoned.
func (e *Engine) SetMode(ctx context.Context, mode board.Mode) error {
	if !e.loaded {
		return errNotLoaded()
	}
	if !board.ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidMode, "mode %q", mode)
	}
	if mode == e.sess.Mode {
		return nil
	}
	e.cancelReflow(ctx, "mode-switch")

	if mode == board.ModeLinear {
		e.savedCanvas = make(map[string]geom.Point, e.board.PanelCount())
		for _, p := range e.board.Panels() {
			e.savedCanvas[p.ID] = p.Position
		}
	} else {
		var created []string
		for _, p := range e.board.Panels() {
			if _, ok := e.savedCanvas[p.ID]; !ok {
				created = append(created, p.ID)
			}
		}
		for id, pos := range e.savedCanvas {
			e.board.SetPosition(id, pos)
		}
		if len(created) > 0 {
			// Place after the restore so the anchor sits at its canvas
			// position, not its linear one.
			cached := e.loadPositions(ctx, e.board.Conversation())
			layout.PlaceCreated(e.board, created, e.anchorFor(created), board.DirectionDown, cached, e.opts.Params)
		}
		e.savedCanvas = nil
	}

	if err := e.sess.SetMode(mode); err != nil {
		return err
	}
	e.RecomputeLayout(ctx, TriggerModeSwitch)
	if mode == board.ModeCanvas {
		e.storePositions()
	}
	return nil
}

// =============================================================================
// Dragging
// =============================================================================

// DragTo moves a panel to a world position during a drag. Each call
// schedules a debounced cache write, so a drag burst lands as one
// write. Dragging is a canvas-mode interaction.
func (e *Engine) DragTo(ctx context.Context, panelID string, pos geom.Point) error {
	if !e.loaded {
		return errNotLoaded()
	}
	if e.sess.Mode != board.ModeCanvas {
		return errors.New(errors.ErrCodeInvalidMode, "dragging requires canvas mode")
	}
	if !e.board.SetPosition(panelID, pos) {
		return errors.New(errors.ErrCodePanelNotFound, "panel %s", panelID)
	}
	e.storePositions()
	return nil
}

// EndDrag finishes a drag. The trailing debounced write already holds
// the final position; this is the hook for hosts that want an eager
// flush on drop.
func (e *Engine) EndDrag(ctx context.Context) {
	if !e.loaded || e.opts.Positions == nil || e.sess.Mode != board.ModeCanvas {
		return
	}
	if err := e.opts.Positions.Flush(ctx, e.board.Conversation()); err != nil {
		e.opts.Logger.Warn("flush position cache", "err", err)
	}
}

// =============================================================================
// Wheel input
// =============================================================================

// Wheel maps one wheel event onto the viewport through the scroll/zoom
// state machine.
func (e *Engine) Wheel(w scroll.Wheel) {
	if !e.loaded {
		return
	}
	ctx := scroll.Context{
		Linear:       e.sess.Mode == board.ModeLinear,
		OffsetX:      e.alignment.OffsetX,
		BottomLimit:  layout.LinearBottomLimit(e.board, e.opts.Params),
		StackCenterX: e.alignment.OffsetX + e.alignment.StackWidth/2,
		Canvas:       e.snap.Canvas,
	}
	e.viewport = e.scrollCtl.Apply(e.viewport, w, ctx)
	_ = e.sess.SetViewport(e.viewport)
}

// SetScrollSubMode switches what unmodified wheel input does.
func (e *Engine) SetScrollSubMode(m scroll.SubMode) {
	if !e.loaded {
		return
	}
	e.scrollCtl.SetSubMode(m)
	_ = e.sess.SetSubMode(m)
}

// RestoreViewport applies a viewport saved by an earlier session. Zoom
// is clamped, and linear mode re-pins and re-clamps the result.
func (e *Engine) RestoreViewport(v geom.Viewport) {
	if !e.loaded {
		return
	}
	v = v.ClampZoom()
	if e.sess.Mode == board.ModeLinear {
		v.X = e.alignment.OffsetX
		v = e.clampLinear(v)
	}
	e.viewport = v
	_ = e.sess.SetViewport(v)
}

// =============================================================================
// Minimap input
// =============================================================================

// OverviewPointerDown forwards a pointer press on the overview widget.
// Pre-load presses are dropped so the fallback timer never arms against
// an empty engine.
func (e *Engine) OverviewPointerDown(p geom.Point) {
	if !e.loaded {
		return
	}
	e.navigator.PointerDown(p)
}

// OverviewPointerMove forwards pointer motion on the overview widget.
func (e *Engine) OverviewPointerMove(p geom.Point) {
	if !e.loaded {
		return
	}
	e.navigator.PointerMove(p)
}

// OverviewPointerUp resolves the gesture against the current frame.
func (e *Engine) OverviewPointerUp(p geom.Point) {
	if !e.loaded {
		return
	}
	overview := layout.EffectiveOverview(e.snap, e.opts.Params)
	frame := minimap.Frame{
		Viewport: e.viewport,
		Canvas:   e.snap.Canvas,
		Overview: geom.Size{Width: overview.Width, Height: overview.Height},
		Panels:   e.panelCenters(),
	}
	e.navigator.PointerUp(p, frame)
}

func (e *Engine) panelCenters() []minimap.PanelCenter {
	panels := e.board.Panels()
	centers := make([]minimap.PanelCenter, 0, len(panels))
	for _, p := range panels {
		centers = append(centers, minimap.PanelCenter{
			ID:     p.ID,
			Center: p.Bounds(e.opts.Params.PanelWidth).Center(),
		})
	}
	return centers
}

// applyMinimap consumes navigator results.
func (e *Engine) applyMinimap(res minimap.Result) {
	switch res.Action {
	case minimap.ActionRecenter:
		p, ok := e.board.Panel(res.PanelID)
		if !ok {
			e.FitAll()
			return
		}
		bounds := p.Bounds(e.opts.Params.PanelWidth)
		e.viewport = minimap.RecenterViewport(e.viewport, bounds, e.snap.InputBox, RecenterGap)
		if e.sess.Mode == board.ModeLinear {
			e.viewport.X = e.alignment.OffsetX
			e.viewport = e.clampLinear(e.viewport)
		}
	case minimap.ActionFitAll:
		e.FitAll()
	}
	_ = e.sess.SetViewport(e.viewport)
}
