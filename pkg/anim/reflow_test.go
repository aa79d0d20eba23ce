package anim

import (
	"math"
	"testing"
	"time"

	"github.com/tilegrid/boardflow/pkg/geom"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"start", 0, 0},
		{"end", 1, 1},
		{"half", 0.5, 0.875},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EaseOutCubic(tt.t); !approx(got, tt.want) {
				t.Errorf("EaseOutCubic(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestAnimatorCompletes(t *testing.T) {
	sched := NewManualScheduler()
	a := NewAnimator(sched, 300*time.Millisecond)

	var final map[string]geom.Point
	a.Begin([]Move{
		{ID: "b", From: geom.Point{X: 0, Y: 450}, To: geom.Point{X: 0, Y: 50}},
	}, nil, func(pos map[string]geom.Point) { final = pos })

	if !a.Animating() {
		t.Fatal("expected animation in flight after Begin")
	}
	for i := 0; i < 30; i++ {
		sched.Step(16 * time.Millisecond)
	}

	if final == nil {
		t.Fatal("done callback never fired")
	}
	if got := final["b"]; !approx(got.Y, 50) {
		t.Errorf("final y = %v, want 50", got.Y)
	}
	if a.Animating() {
		t.Error("animator still in flight after completion")
	}
	if sched.Active() != 0 {
		t.Errorf("scheduler still has %d active callbacks", sched.Active())
	}
}

// Collapsing a 400-tall panel above a follower at y=450 must settle the
// follower at y=50: followers translate by the height delta, not to a
// repacked position.
func TestAnimatorCollapseShiftsFollowerUp(t *testing.T) {
	sched := NewManualScheduler()
	a := NewAnimator(sched, 300*time.Millisecond)

	follower := geom.Point{X: 0, Y: 450}
	delta := 0.0 - 400.0
	target := geom.Point{X: follower.X, Y: follower.Y + delta}

	applied := make([]float64, 0, 32)
	a.Begin([]Move{{ID: "b", From: follower, To: target}}, func(pos map[string]geom.Point) {
		applied = append(applied, pos["b"].Y)
	}, nil)

	for i := 0; i < 30; i++ {
		sched.Step(16 * time.Millisecond)
	}

	if len(applied) == 0 {
		t.Fatal("apply callback never fired")
	}
	last := applied[len(applied)-1]
	if !approx(last, 50) {
		t.Errorf("settled y = %v, want 50", last)
	}
	// Ease-out is monotone: y only ever decreases toward the target.
	for i := 1; i < len(applied); i++ {
		if applied[i] > applied[i-1]+1e-9 {
			t.Fatalf("y moved away from target at frame %d: %v -> %v", i, applied[i-1], applied[i])
		}
	}
}

func TestAnimatorSupersedeStartsFromInterpolated(t *testing.T) {
	sched := NewManualScheduler()
	a := NewAnimator(sched, 300*time.Millisecond)

	doneFired := false
	a.Begin([]Move{
		{ID: "p", From: geom.Point{Y: 0}, To: geom.Point{Y: 100}},
	}, nil, func(map[string]geom.Point) { doneFired = true })

	sched.Step(150 * time.Millisecond)
	mid, ok := a.Current("p")
	if !ok {
		t.Fatal("panel missing from in-flight animation")
	}
	if mid.Y <= 0 || mid.Y >= 100 {
		t.Fatalf("expected mid-flight position, got y=%v", mid.Y)
	}

	// Retarget mid-flight. From is deliberately stale; the animator must
	// override it with the interpolated position.
	a.Begin([]Move{
		{ID: "p", From: geom.Point{Y: 0}, To: geom.Point{Y: -50}},
	}, nil, nil)

	if doneFired {
		t.Error("superseded animation invoked its done callback")
	}
	start, _ := a.Current("p")
	if !approx(start.Y, mid.Y) {
		t.Errorf("superseding animation starts at y=%v, want interpolated %v", start.Y, mid.Y)
	}

	for i := 0; i < 30; i++ {
		sched.Step(16 * time.Millisecond)
	}
	end, ok := a.Current("p")
	if ok {
		t.Fatalf("animation still in flight, current y=%v", end.Y)
	}
	if sched.Active() != 0 {
		t.Errorf("scheduler has %d active callbacks, want 0", sched.Active())
	}
}

func TestAnimatorCancelAbandons(t *testing.T) {
	sched := NewManualScheduler()
	a := NewAnimator(sched, 300*time.Millisecond)

	doneFired := false
	a.Begin([]Move{
		{ID: "p", From: geom.Point{Y: 0}, To: geom.Point{Y: 100}},
	}, nil, func(map[string]geom.Point) { doneFired = true })

	sched.Step(100 * time.Millisecond)
	a.Cancel()

	if a.Animating() {
		t.Error("animator reports in flight after Cancel")
	}
	if doneFired {
		t.Error("done callback fired on Cancel")
	}
	if sched.Active() != 0 {
		t.Errorf("scheduler has %d active callbacks after Cancel", sched.Active())
	}
	// Cancel is a no-op when idle.
	a.Cancel()
}

func TestAnimatorZeroDurationDefaults(t *testing.T) {
	a := NewAnimator(NewManualScheduler(), 0)
	if a.duration != DefaultDuration {
		t.Errorf("duration = %v, want %v", a.duration, DefaultDuration)
	}
}

func TestAnimatorEmptyMovesIgnored(t *testing.T) {
	sched := NewManualScheduler()
	a := NewAnimator(sched, time.Second)
	a.Begin(nil, nil, nil)
	if a.Animating() || sched.Active() != 0 {
		t.Error("Begin with no moves should not schedule anything")
	}
}
