package engine

import (
	"context"
	"time"

	"github.com/tilegrid/boardflow/pkg/anim"
	"github.com/tilegrid/boardflow/pkg/board"
	"github.com/tilegrid/boardflow/pkg/cache"
	"github.com/tilegrid/boardflow/pkg/errors"
	"github.com/tilegrid/boardflow/pkg/geom"
	"github.com/tilegrid/boardflow/pkg/layout"
	"github.com/tilegrid/boardflow/pkg/minimap"
	"github.com/tilegrid/boardflow/pkg/observability"
	"github.com/tilegrid/boardflow/pkg/scroll"
	"github.com/tilegrid/boardflow/pkg/session"
	"github.com/tilegrid/boardflow/pkg/store"
)

// FitMargin is the screen-space margin left around the content when
// framing the whole board.
const FitMargin = 60.0

// RecenterGap is the screen-space gap between a recentered panel's
// bottom edge and the input box.
const RecenterGap = 40.0

// Engine owns one conversation's board and viewport.
type Engine struct {
	opts Options

	board     *board.Board
	sess      *session.Session
	viewport  geom.Viewport
	alignment layout.Alignment
	snap      layout.GeometrySnapshot

	animator  *anim.Animator
	scrollCtl scroll.Controller
	navigator *minimap.Navigator

	// savedCanvas holds canvas positions snapshotted on a switch to
	// linear mode, restored on the switch back.
	savedCanvas map[string]geom.Point

	unsubscribe func()
	loaded      bool
}

// New creates an engine. The board is empty until LoadConversation.
func New(opts Options) (*Engine, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	e := &Engine{
		opts:     opts,
		viewport: geom.Viewport{Zoom: 1},
	}
	e.animator = anim.NewAnimator(opts.Scheduler, opts.ReflowDuration)

	nav, err := minimap.NewNavigator(e.applyMinimap, minimap.Options{})
	if err != nil {
		return nil, err
	}
	e.navigator = nav
	return e, nil
}

// Board returns the engine's board. Nil before LoadConversation.
func (e *Engine) Board() *board.Board { return e.board }

// Session returns the active board session. Nil before LoadConversation.
func (e *Engine) Session() *session.Session { return e.sess }

// Viewport returns the current viewport transform.
func (e *Engine) Viewport() geom.Viewport { return e.viewport }

// Alignment returns the last computed alignment.
func (e *Engine) Alignment() layout.Alignment { return e.alignment }

// Geometry returns the chrome snapshot of the last layout pass.
func (e *Engine) Geometry() layout.GeometrySnapshot { return e.snap }

// Params returns the layout constants in effect.
func (e *Engine) Params() layout.Params { return e.opts.Params }

// LoadConversation pulls the content snapshot and persisted edges,
// restores cached positions, places everything, and opens a session.
// Loading again replaces the previous conversation.
func (e *Engine) LoadConversation(ctx context.Context, conversation string) error {
	turns, err := e.opts.Content.Turns(ctx, conversation)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransientIO, err, "load conversation %s", conversation)
	}
	records, err := e.opts.Edges.List(ctx, conversation)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransientIO, err, "load edges for %s", conversation)
	}

	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.cancelReflow(ctx, "load")

	b := board.New(conversation)
	res := b.Upsert(turns)

	for _, rec := range records {
		// Edges whose endpoints are gone are dropped silently.
		if _, _, err := b.AddEdge(rec.Source, rec.Target, rec.Style); err != nil {
			e.opts.Logger.Debug("pruning dangling edge",
				"code", errors.ErrCodeDanglingReference, "source", rec.Source, "target", rec.Target)
		}
	}

	cached := e.loadPositions(ctx, conversation)
	layout.PlaceCreated(b, res.Created, nil, board.DirectionDown, cached, e.opts.Params)

	e.board = b
	e.savedCanvas = nil
	e.sess = session.New(conversation, board.ModeCanvas, 0)
	e.unsubscribe = e.opts.Content.Subscribe(conversation, func() {
		e.onContentChanged(context.Background())
	})
	e.loaded = true

	e.RecomputeLayout(ctx, TriggerLoad)
	e.FitAll()
	b.ClearDirty()

	e.opts.Logger.Info("conversation loaded",
		"conversation", conversation,
		"panels", b.PanelCount(),
		"edges", b.EdgeCount())
	return nil
}

// Teardown unsubscribes, abandons any animation, flushes pending cache
// writes, and closes the session. The engine can load again afterwards.
func (e *Engine) Teardown(ctx context.Context) {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.cancelReflow(ctx, "teardown")

	if e.loaded {
		if e.opts.Positions != nil {
			if err := e.opts.Positions.Flush(ctx, e.board.Conversation()); err != nil {
				e.opts.Logger.Warn("flush position cache", "err", err)
			}
		}
		e.sess.Close()
	}
	e.loaded = false
}

// RecomputeLayout runs one layout pass: capture chrome geometry, decide
// alignment, apply mode-dependent positions, and adjust the viewport.
// The trigger names what invalidated the layout and is passed through
// to the layout hooks.
func (e *Engine) RecomputeLayout(ctx context.Context, trigger string) {
	if !e.loaded {
		return
	}
	start := time.Now()
	observability.Layout().OnRecomputeStart(ctx, trigger, e.board.PanelCount())

	prevCentered := e.alignment.Centered
	prevOffset := e.alignment.OffsetX

	e.snap = layout.Capture(e.opts.Environment)
	if len(e.snap.Degraded) > 0 {
		e.opts.Logger.Debug("geometry degraded, using defaults",
			"code", errors.ErrCodeGeometryUnavailable, "elements", e.snap.Degraded)
	}
	e.alignment = layout.ComputeAlignment(e.snap, e.opts.Params)

	if e.sess.Mode == board.ModeLinear {
		e.cancelReflow(ctx, "layout")
		layout.ApplyLinear(e.board, e.opts.Params)
		e.viewport.X = e.alignment.OffsetX
		e.viewport = e.clampLinear(e.viewport)
	} else if trigger != TriggerLoad {
		// The offset lands on the viewport, never on panel positions;
		// shift by the delta so user panning survives the pass.
		e.viewport.X += e.alignment.OffsetX - prevOffset
	}

	if prevCentered != e.alignment.Centered {
		observability.Layout().OnAlignmentSwitch(ctx, e.alignment.Centered)
	}
	observability.Layout().OnRecomputeComplete(ctx, trigger, time.Since(start), nil)
}

// onContentChanged re-pulls the full ordered snapshot. Notifications
// carry no payload; there is no incremental merge.
func (e *Engine) onContentChanged(ctx context.Context) {
	if !e.loaded {
		return
	}
	conversation := e.board.Conversation()
	turns, err := e.opts.Content.Turns(ctx, conversation)
	if err != nil {
		e.opts.Logger.Warn("content re-pull failed", "err", err)
		return
	}

	res := e.board.Upsert(turns)
	if len(res.Missing) > 0 {
		e.board.Remove(res.Missing...)
	}
	if len(res.Created) > 0 {
		anchor := e.anchorFor(res.Created)
		cached := e.loadPositions(ctx, conversation)
		layout.PlaceCreated(e.board, res.Created, anchor, board.DirectionDown, cached, e.opts.Params)
	}

	e.RecomputeLayout(ctx, TriggerContent)
}

// anchorFor picks the placement anchor for a created batch: the first
// selected panel if one exists, else the newest panel outside the batch.
func (e *Engine) anchorFor(created []string) *board.Panel {
	inBatch := make(map[string]bool, len(created))
	for _, id := range created {
		inBatch[id] = true
	}

	for _, id := range e.sess.Selection {
		if inBatch[id] {
			continue
		}
		if p, ok := e.board.Panel(id); ok {
			return p
		}
	}

	var newest *board.Panel
	for _, p := range e.board.Panels() {
		if inBatch[p.ID] {
			continue
		}
		if newest == nil || p.CreatedAt.After(newest.CreatedAt) {
			newest = p
		}
	}
	return newest
}

// Resize re-runs the layout pass after a window resize.
func (e *Engine) Resize(ctx context.Context) {
	e.RecomputeLayout(ctx, TriggerResize)
}

// SidebarToggled re-runs the layout pass after the sidebar expands or
// collapses.
func (e *Engine) SidebarToggled(ctx context.Context) {
	e.RecomputeLayout(ctx, TriggerSidebar)
}

// FitAll frames the whole board in the viewport.
func (e *Engine) FitAll() {
	if !e.loaded {
		return
	}
	bounds := e.board.ContentBounds(e.opts.Params.PanelWidth)
	if bounds.Width == 0 && bounds.Height == 0 {
		e.viewport = geom.Viewport{Zoom: 1}
		return
	}
	e.viewport = geom.FitRect(bounds, e.snap.Canvas, FitMargin)
	if e.sess.Mode == board.ModeLinear {
		e.viewport.X = e.alignment.OffsetX
		e.viewport = e.clampLinear(e.viewport)
	}
}

// loadPositions reads the cached canvas positions, reporting hits and
// misses to the cache hooks. A nil cache or any failure yields nil.
func (e *Engine) loadPositions(ctx context.Context, conversation string) map[string]geom.Point {
	if e.opts.Positions == nil {
		return nil
	}
	pos, err := e.opts.Positions.Load(ctx, conversation)
	if err != nil {
		e.opts.Logger.Warn("position cache read failed", "err", err)
		return nil
	}
	if pos == nil {
		observability.Cache().OnCacheMiss(ctx, "positions")
		return nil
	}
	observability.Cache().OnCacheHit(ctx, "positions")
	return pos
}

// storePositions schedules a debounced cache write of the current
// canvas positions. Linear positions are derived and never cached.
func (e *Engine) storePositions() {
	if e.opts.Positions == nil || e.sess.Mode != board.ModeCanvas {
		return
	}
	pos := make(cache.Positions, e.board.PanelCount())
	for _, p := range e.board.Panels() {
		pos[p.ID] = p.Position
	}
	e.opts.Positions.Store(e.board.Conversation(), pos)
}

// clampLinear applies the linear-mode bottom scroll limit.
func (e *Engine) clampLinear(v geom.Viewport) geom.Viewport {
	limit := layout.LinearBottomLimit(e.board, e.opts.Params)
	minY := e.snap.Canvas.Height - limit*v.Zoom
	if v.Y < minY {
		v.Y = minY
	}
	return v
}

// cancelReflow abandons an in-flight animation, if any.
func (e *Engine) cancelReflow(ctx context.Context, reason string) {
	if e.animator.Animating() {
		e.animator.Cancel()
		e.opts.Logger.Debug("reflow abandoned",
			"code", errors.ErrCodeAnimationInterrupted, "reason", reason)
		observability.Animation().OnReflowInterrupted(ctx, reason)
	}
}

// errNotLoaded is returned by input entry points reached before
// LoadConversation has opened a session.
func errNotLoaded() error {
	return errors.New(errors.ErrCodeSessionNotFound, "no conversation loaded")
}

// edgeRecord builds the persistence record for a board edge.
func (e *Engine) edgeRecord(edge board.Edge) store.EdgeRecord {
	return store.EdgeRecord{
		Conversation: e.board.Conversation(),
		Source:       edge.Source,
		Target:       edge.Target,
		Style:        edge.Style,
	}
}
