package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnRecomputeStart(ctx, "resize", 12)
	l.OnRecomputeComplete(ctx, "resize", time.Millisecond, nil)
	l.OnAlignmentSwitch(ctx, true)

	// Animation hooks
	a := NoopAnimationHooks{}
	a.OnReflowStart(ctx, 3, -400)
	a.OnReflowComplete(ctx, 300*time.Millisecond)
	a.OnReflowInterrupted(ctx, "mode-switch")

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "positions")
	c.OnCacheMiss(ctx, "snapshot")
	c.OnCacheSet(ctx, "positions", 1024)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnEdgeCreate(ctx, "conv-1", nil)
	s.OnEdgeDelete(ctx, "conv-1", nil)
	s.OnRollback(ctx, "conv-1", "edge-create")
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Animation().(NoopAnimationHooks); !ok {
		t.Error("Animation() should return NoopAnimationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	// Set custom hooks
	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customAnimation := &testAnimationHooks{}
	SetAnimationHooks(customAnimation)
	if Animation() != customAnimation {
		t.Error("SetAnimationHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)

	// Setting nil should be ignored
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testAnimationHooks struct{ NoopAnimationHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testStoreHooks struct{ NoopStoreHooks }
