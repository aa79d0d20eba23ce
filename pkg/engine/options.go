package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilegrid/boardflow/pkg/anim"
	"github.com/tilegrid/boardflow/pkg/cache"
	"github.com/tilegrid/boardflow/pkg/content"
	"github.com/tilegrid/boardflow/pkg/layout"
	"github.com/tilegrid/boardflow/pkg/store"
)

// Triggers passed to RecomputeLayout and the layout hooks.
const (
	TriggerLoad       = "load"
	TriggerContent    = "content"
	TriggerResize     = "resize"
	TriggerSidebar    = "sidebar"
	TriggerModeSwitch = "mode-switch"
	TriggerOverview   = "overview-relocation"
)

// Options configures an Engine.
type Options struct {
	// Environment supplies the named chrome rectangles. Required.
	Environment layout.Environment

	// Content supplies conversation turns. Required.
	Content content.Provider

	// Edges persists edge triples. Required.
	Edges store.EdgeStore

	// Params are the layout constants. Zero fields get defaults.
	Params layout.Params

	// Positions caches canvas panel positions. Nil disables caching.
	Positions *cache.PositionCache

	// Scheduler drives reflow frames. Defaults to a manual scheduler,
	// which TUI hosts step from their event loop.
	Scheduler anim.FrameScheduler

	// ReflowDuration overrides the default animation length.
	ReflowDuration time.Duration

	// Runner executes persistence writes. The default runs them inline;
	// hosts with a real event loop can dispatch to a worker and marshal
	// the completion back. Completions must arrive on the engine's loop.
	Runner func(fn func())

	// Notify surfaces a user-visible message after a rollback.
	// Defaults to a no-op.
	Notify func(message string)

	// Logger receives engine logs. Defaults to a discard logger.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Environment == nil {
		return fmt.Errorf("environment is required")
	}
	if o.Content == nil {
		return fmt.Errorf("content provider is required")
	}
	if o.Edges == nil {
		return fmt.Errorf("edge store is required")
	}

	o.Params.ApplyDefaults()

	if o.Scheduler == nil {
		o.Scheduler = anim.NewManualScheduler()
	}
	if o.ReflowDuration <= 0 {
		o.ReflowDuration = anim.DefaultDuration
	}
	if o.Runner == nil {
		o.Runner = func(fn func()) { fn() }
	}
	if o.Notify == nil {
		o.Notify = func(string) {}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}
