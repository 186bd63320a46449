package motion

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestEases(t *testing.T) {
	eases := map[string]Ease{
		"linear":    Linear,
		"power2In":  Power2In,
		"power2Out": Power2Out,
		"sineInOut": SineInOut,
	}
	for name, ease := range eases {
		t.Run(name, func(t *testing.T) {
			if got := ease(0); math.Abs(got) > 1e-9 {
				t.Errorf("ease(0) = %v, want 0", got)
			}
			if got := ease(1); math.Abs(got-1) > 1e-9 {
				t.Errorf("ease(1) = %v, want 1", got)
			}
			prev := 0.0
			for i := 1; i <= 100; i++ {
				v := ease(float64(i) / 100)
				if v < prev {
					t.Fatalf("ease not monotonic at %d: %v < %v", i, v, prev)
				}
				prev = v
			}
		})
	}

	if Power2Out(0.5) <= 0.5 {
		t.Error("Power2Out should be ahead of linear at the midpoint")
	}
	if Power2In(0.5) >= 0.5 {
		t.Error("Power2In should trail linear at the midpoint")
	}
}

func TestInterpolate(t *testing.T) {
	from := Keyframe{Opacity: 0, Y: 30, Scale: 0.98}
	to := Visible

	tests := []struct {
		name     string
		progress float64
		want     Keyframe
	}{
		{"start", 0, from},
		{"end", 1, to},
		{"clamped low", -3, from},
		{"clamped high", 7, to},
		{"nan", math.NaN(), from},
		{"midpoint", 0.5, Keyframe{Opacity: 0.5, Y: 15, Scale: 0.99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpolate(tt.progress, from, to, nil)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Interpolate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTriggerProgress(t *testing.T) {
	tests := []struct {
		name string
		tr   Trigger
		pos  float64
		want float64
	}{
		{"ascending before", Trigger{0, 100}, -10, 0},
		{"ascending middle", Trigger{0, 100}, 25, 0.25},
		{"ascending after", Trigger{0, 100}, 150, 1},
		{"descending start", Trigger{80, 20}, 80, 0},
		{"descending middle", Trigger{80, 20}, 50, 0.5},
		{"descending end", Trigger{80, 20}, 0, 1},
		{"step before", Trigger{10, 10}, 9, 0},
		{"step at", Trigger{10, 10}, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Progress(tt.pos); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Progress(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestTimelineStagger(t *testing.T) {
	scene := ProblemReveal()
	if d := scene.Timeline.Duration(); math.Abs(d-0.8) > 1e-9 {
		t.Fatalf("Duration() = %v, want 0.8", d)
	}

	frames := scene.Timeline.At(0)
	for i, f := range frames {
		if f.Opacity != 0 {
			t.Errorf("tween %d opacity at start = %v, want 0", i, f.Opacity)
		}
	}

	// 0.125 of 0.8 = 0.1: first tween has started, the others have not.
	frames = scene.Timeline.At(0.125)
	if frames[0].Opacity <= 0 {
		t.Error("first tween should have started")
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].Opacity != 0 {
			t.Errorf("tween %d started early: opacity %v", i, frames[i].Opacity)
		}
	}

	frames = scene.Timeline.At(1)
	for i, f := range frames {
		if diff := cmp.Diff(Visible, f, approx); diff != "" {
			t.Errorf("tween %d at end mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestSceneAt(t *testing.T) {
	scene := TruthReveal()
	viewport := 40.0

	below := scene.At(40, viewport)
	if below[0].Opacity != 0 || below[0].X != -40 || below[1].X != 40 {
		t.Errorf("below the fold got %+v", below)
	}

	settled := scene.At(5, viewport)
	for i, f := range settled {
		if diff := cmp.Diff(Visible, f, approx); diff != "" {
			t.Errorf("tween %d settled mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestHeroExit(t *testing.T) {
	tl := HeroExit()
	trigger := HeroExitTrigger(50)

	start := tl.At(trigger.Progress(0))
	for i, f := range start {
		if f.Opacity != 1 {
			t.Errorf("tween %d opacity at top = %v, want 1", i, f.Opacity)
		}
	}

	end := tl.At(trigger.Progress(60))
	if end[0].Y != -10 || end[0].Opacity != 0 {
		t.Errorf("headline at end = %+v", end[0])
	}
}

func TestZeroDurationTween(t *testing.T) {
	tw := Tween{From: Keyframe{}, To: Visible, Position: 1}
	if got := tw.At(0.5); got != (Keyframe{}) {
		t.Errorf("before position got %+v", got)
	}
	if got := tw.At(1); got != Visible {
		t.Errorf("at position got %+v", got)
	}
}

func TestBob(t *testing.T) {
	if got := Bob(0, 0); got != 0 {
		t.Errorf("Bob(0, 0) = %v, want 0", got)
	}
	if got := Bob(2, 0.2); got != 0 {
		t.Errorf("Bob before delay = %v, want 0", got)
	}
	if got := Bob(0, 3); math.Abs(got-6) > 1e-9 {
		t.Errorf("Bob(0, 3) = %v, want 6 at the top of the yoyo", got)
	}
	if got := Bob(0, 6); math.Abs(got) > 1e-9 {
		t.Errorf("Bob(0, 6) = %v, want 0 after a full yoyo", got)
	}
	for ts := 0.0; ts < 20; ts += 0.37 {
		if v := Bob(4, ts); v < 0 || v > 6 {
			t.Fatalf("Bob(4, %v) = %v, out of range", ts, v)
		}
	}
}
