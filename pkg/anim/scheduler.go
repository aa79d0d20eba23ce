// Package anim provides the reflow animator and the frame-scheduler
// abstraction that drives it.
//
// The animator never talks to a host animation-frame API directly.
// Frames arrive through [FrameScheduler], so the same animator runs
// against a real ticker, a TUI event loop, or a hand-stepped scheduler
// in tests. Cancellation is explicit: every scheduled callback owns a
// [Handle], and cancelling it is the only way an animation stops early.
package anim

import (
	"sync"
	"time"
)

// FrameScheduler schedules a per-frame callback.
type FrameScheduler interface {
	// Schedule begins invoking tick repeatedly with the time elapsed
	// since the previous invocation, until the returned handle is
	// cancelled. The first invocation reports the time since Schedule.
	Schedule(tick func(dt time.Duration)) Handle
}

// Handle cancels a scheduled callback. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// ManualScheduler is a FrameScheduler stepped by hand.
// Tests and single-threaded hosts (the TUI event loop) call [Step] to
// advance all active callbacks by a fixed delta.
type ManualScheduler struct {
	next  int
	ticks map[int]func(dt time.Duration)
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{ticks: make(map[int]func(dt time.Duration))}
}

// Schedule registers tick for future Step calls.
func (m *ManualScheduler) Schedule(tick func(dt time.Duration)) Handle {
	id := m.next
	m.next++
	m.ticks[id] = tick
	return &manualHandle{owner: m, id: id}
}

// Step advances every active callback by dt.
func (m *ManualScheduler) Step(dt time.Duration) {
	// Collect first: a tick may cancel itself (animation completion).
	active := make([]func(dt time.Duration), 0, len(m.ticks))
	for _, tick := range m.ticks {
		active = append(active, tick)
	}
	for _, tick := range active {
		tick(dt)
	}
}

// Active returns the number of scheduled callbacks.
func (m *ManualScheduler) Active() int { return len(m.ticks) }

type manualHandle struct {
	owner *ManualScheduler
	id    int
}

func (h *manualHandle) Cancel() { delete(h.owner.ticks, h.id) }

// TickerScheduler is a FrameScheduler backed by a time.Ticker running in
// its own goroutine. Hosts that use it must serialize engine access
// themselves; the single-threaded model assumes frames and input arrive
// on one loop.
type TickerScheduler struct {
	// Interval between frames. Zero means DefaultFrameInterval.
	Interval time.Duration
}

// DefaultFrameInterval approximates 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Schedule starts a goroutine delivering ticks until cancelled.
func (s *TickerScheduler) Schedule(tick func(dt time.Duration)) Handle {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	h := &tickerHandle{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-h.stop:
				return
			case now := <-ticker.C:
				tick(now.Sub(last))
				last = now
			}
		}
	}()
	return h
}

type tickerHandle struct {
	once sync.Once
	stop chan struct{}
}

func (h *tickerHandle) Cancel() { h.once.Do(func() { close(h.stop) }) }

// Ensure both schedulers implement FrameScheduler.
var (
	_ FrameScheduler = (*ManualScheduler)(nil)
	_ FrameScheduler = (*TickerScheduler)(nil)
)
