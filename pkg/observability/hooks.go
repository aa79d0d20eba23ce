// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout passes, animations, cache operations, and
// edge persistence.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnRecomputeStart(ctx, trigger, panelCount)
//	// ... run the layout pass ...
//	observability.Layout().OnRecomputeComplete(ctx, trigger, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout recomputation.
type LayoutHooks interface {
	// OnRecomputeStart records the start of a layout pass.
	OnRecomputeStart(ctx context.Context, trigger string, panelCount int)

	// OnRecomputeComplete records the end of a layout pass.
	OnRecomputeComplete(ctx context.Context, trigger string, duration time.Duration, err error)

	// OnAlignmentSwitch records the stack flipping between left-aligned
	// and centered placement.
	OnAlignmentSwitch(ctx context.Context, centered bool)
}

// =============================================================================
// Animation Hooks
// =============================================================================

// AnimationHooks receives events from the reflow animator.
type AnimationHooks interface {
	// OnReflowStart records a reflow animation beginning.
	OnReflowStart(ctx context.Context, panelCount int, delta float64)

	// OnReflowComplete records a reflow settling.
	OnReflowComplete(ctx context.Context, duration time.Duration)

	// OnReflowInterrupted records a reflow abandoned mid-flight
	// (mode switch, supersession, teardown).
	OnReflowInterrupted(ctx context.Context, reason string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from edge persistence operations.
type StoreHooks interface {
	// OnEdgeCreate records an edge insert.
	OnEdgeCreate(ctx context.Context, conversation string, err error)

	// OnEdgeDelete records an edge delete.
	OnEdgeDelete(ctx context.Context, conversation string, err error)

	// OnRollback records an optimistic mutation being rolled back after
	// a persistence failure.
	OnRollback(ctx context.Context, conversation, kind string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnRecomputeStart(context.Context, string, int) {}
func (NoopLayoutHooks) OnRecomputeComplete(context.Context, string, time.Duration, error) {
}
func (NoopLayoutHooks) OnAlignmentSwitch(context.Context, bool) {}

// NoopAnimationHooks is a no-op implementation of AnimationHooks.
type NoopAnimationHooks struct{}

func (NoopAnimationHooks) OnReflowStart(context.Context, int, float64)     {}
func (NoopAnimationHooks) OnReflowComplete(context.Context, time.Duration) {}
func (NoopAnimationHooks) OnReflowInterrupted(context.Context, string)     {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnEdgeCreate(context.Context, string, error) {}
func (NoopStoreHooks) OnEdgeDelete(context.Context, string, error) {}
func (NoopStoreHooks) OnRollback(context.Context, string, string)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks    LayoutHooks    = NoopLayoutHooks{}
	animationHooks AnimationHooks = NoopAnimationHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	storeHooks     StoreHooks     = NoopStoreHooks{}
	hooksMu        sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout passes.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetAnimationHooks registers custom animation hooks.
// This should be called once at application startup.
func SetAnimationHooks(h AnimationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		animationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any persistence operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Animation returns the registered animation hooks.
func Animation() AnimationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return animationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	animationHooks = NoopAnimationHooks{}
	cacheHooks = NoopCacheHooks{}
	storeHooks = NoopStoreHooks{}
}
