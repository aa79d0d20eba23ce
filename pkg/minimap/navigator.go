package minimap

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tilegrid/boardflow/pkg/geom"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultDragThreshold is the pointer displacement in overview pixels
	// beyond which a press counts as a drag instead of a click.
	DefaultDragThreshold = 4.0

	// DefaultClickRadius is the maximum normalized distance between a
	// click and a panel's projected center for the click to select it.
	DefaultClickRadius = 0.08

	// DefaultFallbackWindow bounds how long the navigator waits for a
	// pointer-up before assuming the overview's rendering layer swallowed
	// it and issuing the fit-all fallback.
	DefaultFallbackWindow = 600 * time.Millisecond
)

// =============================================================================
// Types
// =============================================================================

// Action is the viewport command a pointer gesture resolved to.
type Action int

const (
	// ActionNone means the gesture requires no viewport change (a drag,
	// or a pointer-up with no matching press).
	ActionNone Action = iota

	// ActionRecenter centers the panel named by Result.PanelID above the
	// floating input box.
	ActionRecenter

	// ActionFitAll frames the whole board in the viewport.
	ActionFitAll
)

// Result is the outcome of a resolved gesture.
type Result struct {
	Action  Action
	PanelID string
}

// PanelCenter is a panel's world-space center, the only panel data the
// navigator needs.
type PanelCenter struct {
	ID     string
	Center geom.Point
}

// Frame is the geometry snapshot a click is resolved against.
type Frame struct {
	Viewport geom.Viewport
	Canvas   geom.Size // main canvas size in screen pixels
	Overview geom.Size // overview widget size in pixels
	Panels   []PanelCenter
}

// Options configures a Navigator. The zero value is usable after
// ValidateAndSetDefaults.
type Options struct {
	DragThreshold  float64
	ClickRadius    float64
	FallbackWindow time.Duration

	// NewTimer schedules fire after d and returns a stop function.
	// Defaults to time.AfterFunc; tests inject a manual trigger.
	NewTimer func(d time.Duration, fire func()) (stop func())
}

// ValidateAndSetDefaults checks fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.DragThreshold < 0 {
		return fmt.Errorf("drag threshold must be >= 0, got %v", o.DragThreshold)
	}
	if o.ClickRadius < 0 {
		return fmt.Errorf("click radius must be >= 0, got %v", o.ClickRadius)
	}
	if o.DragThreshold == 0 {
		o.DragThreshold = DefaultDragThreshold
	}
	if o.ClickRadius == 0 {
		o.ClickRadius = DefaultClickRadius
	}
	if o.FallbackWindow <= 0 {
		o.FallbackWindow = DefaultFallbackWindow
	}
	if o.NewTimer == nil {
		o.NewTimer = func(d time.Duration, fire func()) func() {
			t := time.AfterFunc(d, fire)
			return func() { t.Stop() }
		}
	}
	return nil
}

// =============================================================================
// Navigator
// =============================================================================

// Navigator resolves overview pointer gestures into viewport commands.
// Commands are delivered through the emit callback so the asynchronous
// fallback path and the synchronous pointer-up path share one sink.
type Navigator struct {
	opts Options
	emit func(Result)

	mu        sync.Mutex
	active    bool
	dragging  bool
	start     geom.Point
	stopTimer func()
}

// NewNavigator builds a navigator delivering commands to emit.
func NewNavigator(emit func(Result), opts Options) (*Navigator, error) {
	if emit == nil {
		return nil, fmt.Errorf("emit callback is required")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Navigator{opts: opts, emit: emit}, nil
}

// PointerDown records the press origin and arms the fallback timer.
// Coordinates are overview-widget pixels.
func (n *Navigator) PointerDown(p geom.Point) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.cancelTimerLocked()
	n.active = true
	n.dragging = false
	n.start = p
	n.stopTimer = n.opts.NewTimer(n.opts.FallbackWindow, n.fallback)
}

// PointerMove promotes the press to a drag once displacement exceeds the
// threshold. Ignored when no press is active.
func (n *Navigator) PointerMove(p geom.Point) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.active || n.dragging {
		return
	}
	dx, dy := p.X-n.start.X, p.Y-n.start.Y
	if math.Hypot(dx, dy) > n.opts.DragThreshold {
		n.dragging = true
	}
}

// PointerUp resolves the gesture. A drag emits nothing (the overview's
// own pan handling already applied); a click resolves to the nearest
// projected panel center within the click radius, or fit-all when no
// panel is close enough. The result is both emitted and returned.
func (n *Navigator) PointerUp(p geom.Point, f Frame) Result {
	n.mu.Lock()
	if !n.active {
		n.mu.Unlock()
		return Result{Action: ActionNone}
	}
	n.cancelTimerLocked()
	n.active = false
	wasDrag := n.dragging
	n.dragging = false
	n.mu.Unlock()

	if wasDrag {
		return Result{Action: ActionNone}
	}

	res := resolveClick(p, f, n.opts.ClickRadius)
	n.emit(res)
	return res
}

// Dragging reports whether the current press has been promoted to a drag.
func (n *Navigator) Dragging() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active && n.dragging
}

// fallback fires when no pointer-up arrived inside the window. The exact
// click coordinates may not be recoverable, so only the fit-all half of
// the click path runs. A press that was promoted to a drag is consumed
// without emitting: the click path does nothing for a drag, and neither
// does the fallback.
func (n *Navigator) fallback() {
	n.mu.Lock()
	if !n.active {
		n.mu.Unlock()
		return
	}
	n.active = false
	wasDrag := n.dragging
	n.dragging = false
	n.stopTimer = nil
	n.mu.Unlock()

	if wasDrag {
		return
	}
	n.emit(Result{Action: ActionFitAll})
}

func (n *Navigator) cancelTimerLocked() {
	if n.stopTimer != nil {
		n.stopTimer()
		n.stopTimer = nil
	}
}

// =============================================================================
// Click resolution
// =============================================================================

// resolveClick projects every panel center into the overview's
// normalized [0,1]² space and picks the nearest one within radius.
func resolveClick(p geom.Point, f Frame, radius float64) Result {
	if f.Overview.Width <= 0 || f.Overview.Height <= 0 ||
		f.Canvas.Width <= 0 || f.Canvas.Height <= 0 {
		return Result{Action: ActionFitAll}
	}

	click := geom.Point{X: p.X / f.Overview.Width, Y: p.Y / f.Overview.Height}

	best := ""
	bestDist := math.Inf(1)
	for _, pc := range f.Panels {
		s := f.Viewport.ToScreen(pc.Center)
		proj := geom.Point{X: s.X / f.Canvas.Width, Y: s.Y / f.Canvas.Height}
		d := math.Hypot(proj.X-click.X, proj.Y-click.Y)
		if d < bestDist {
			best = pc.ID
			bestDist = d
		}
	}

	if best != "" && bestDist <= radius {
		return Result{Action: ActionRecenter, PanelID: best}
	}
	return Result{Action: ActionFitAll}
}

// RecenterViewport returns a viewport, at the current zoom, that places
// the panel horizontally centered on the input box and its bottom edge a
// fixed gap above the input box's top.
func RecenterViewport(view geom.Viewport, panel geom.Rect, inputBox geom.Rect, gap float64) geom.Viewport {
	center := panel.Center()
	targetX := inputBox.Center().X
	targetBottom := inputBox.Y - gap

	out := view
	out.X = targetX - center.X*view.Zoom
	out.Y = targetBottom - panel.Bottom()*view.Zoom
	return out
}
