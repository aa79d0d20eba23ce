package anim

import (
	"time"

	"github.com/tilegrid/boardflow/pkg/geom"
)

// DefaultDuration is the standard reflow animation length.
const DefaultDuration = 300 * time.Millisecond

// EaseOutCubic is the interpolation curve used for reflow:
// eased = 1 - (1-t)³ for t in [0,1].
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Move describes one panel's animated translation.
type Move struct {
	ID   string
	From geom.Point
	To   geom.Point
}

// Animator interpolates panel position deltas after a measured size
// change. One animator serves one board; at most one animation is in
// flight at a time. A new Begin while animating supersedes the in-flight
// animation, restarting from the currently interpolated positions rather
// than queuing.
//
// Animator is not safe for concurrent use - ticks and Begin/Cancel must
// arrive on the same loop.
type Animator struct {
	scheduler FrameScheduler
	duration  time.Duration

	handle  Handle
	moves   []Move
	elapsed time.Duration
	current map[string]geom.Point

	apply func(map[string]geom.Point)
	done  func(map[string]geom.Point)
}

// NewAnimator creates an animator driving frames through the given
// scheduler. A zero duration means DefaultDuration.
func NewAnimator(s FrameScheduler, duration time.Duration) *Animator {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Animator{scheduler: s, duration: duration}
}

// Animating reports whether an animation is in flight.
func (a *Animator) Animating() bool { return a.handle != nil }

// Current returns the interpolated position of a panel in the in-flight
// animation, and whether the panel is part of it.
func (a *Animator) Current(id string) (geom.Point, bool) {
	p, ok := a.current[id]
	return p, ok
}

// Begin starts animating the given moves. apply is invoked every frame
// with the interpolated positions; done is invoked once with the final
// positions when the animation completes (it is not invoked on Cancel
// or supersession).
//
// If an animation is already in flight, each move whose panel is mid
// animation starts from its currently interpolated position instead of
// move.From, and the old animation is dropped without its done callback.
func (a *Animator) Begin(moves []Move, apply, done func(map[string]geom.Point)) {
	if len(moves) == 0 {
		return
	}

	if a.handle != nil {
		// Supersede: retarget from wherever panels are right now.
		for i, m := range moves {
			if cur, ok := a.current[m.ID]; ok {
				moves[i].From = cur
			}
		}
		a.handle.Cancel()
		a.handle = nil
	}

	a.moves = moves
	a.elapsed = 0
	a.current = make(map[string]geom.Point, len(moves))
	for _, m := range moves {
		a.current[m.ID] = m.From
	}
	a.apply = apply
	a.done = done
	a.handle = a.scheduler.Schedule(a.tick)
}

// Cancel abandons the in-flight animation without committing positions.
// The next layout pass recomputes from authoritative state, so nothing
// is corrupted by stopping mid-flight. No-op when idle.
func (a *Animator) Cancel() {
	if a.handle == nil {
		return
	}
	a.handle.Cancel()
	a.reset()
}

func (a *Animator) tick(dt time.Duration) {
	a.elapsed += dt
	t := float64(a.elapsed) / float64(a.duration)
	if t > 1 {
		t = 1
	}
	eased := EaseOutCubic(t)

	for _, m := range a.moves {
		a.current[m.ID] = geom.Point{
			X: m.From.X + (m.To.X-m.From.X)*eased,
			Y: m.From.Y + (m.To.Y-m.From.Y)*eased,
		}
	}
	if a.apply != nil {
		a.apply(a.current)
	}

	if t >= 1 {
		final := a.current
		done := a.done
		a.handle.Cancel()
		a.reset()
		if done != nil {
			done(final)
		}
	}
}

func (a *Animator) reset() {
	a.handle = nil
	a.moves = nil
	a.elapsed = 0
	a.current = nil
	a.apply = nil
	a.done = nil
}
