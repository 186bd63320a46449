// Package motion maps scroll progress to interpolated style snapshots.
//
// It is a small pure-function stand-in for a scroll-trigger animation
// library: a Trigger turns a scroll position into progress in [0,1], an
// Ease shapes it, and Interpolate mixes two Keyframes. Timelines stagger
// several tweens over one trigger.
package motion

import (
	"math"

	"github.com/fogleman/ease"
)

// Keyframe is a style snapshot used as an interpolation endpoint.
type Keyframe struct {
	Opacity float64
	X       float64 // horizontal offset, in cells or pixels
	Y       float64 // vertical offset
	Scale   float64
}

// Visible is the resting keyframe: fully opaque, no offset, natural size.
var Visible = Keyframe{Opacity: 1, Scale: 1}

// Ease shapes linear progress.
type Ease func(t float64) float64

// Named eases, matching the curves the page script uses.
var (
	// Linear leaves progress unchanged.
	Linear Ease = ease.Linear
	// Power2In accelerates from zero velocity.
	Power2In Ease = ease.InCubic
	// Power2Out decelerates to zero velocity.
	Power2Out Ease = ease.OutCubic
	// SineInOut accelerates then decelerates along a sine curve.
	SineInOut Ease = ease.InOutSine
)

// Clamp limits v to [0,1].
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Interpolate returns the keyframe at progress between from and to. Progress
// is clamped to [0,1]; a nil ease is Linear.
func Interpolate(progress float64, from, to Keyframe, ease Ease) Keyframe {
	if ease == nil {
		ease = Linear
	}
	t := ease(Clamp(progress))
	return Keyframe{
		Opacity: lerp(from.Opacity, to.Opacity, t),
		X:       lerp(from.X, to.X, t),
		Y:       lerp(from.Y, to.Y, t),
		Scale:   lerp(from.Scale, to.Scale, t),
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Trigger maps a scroll position onto [0,1] between Start and End.
type Trigger struct {
	Start float64
	End   float64
}

// Progress returns how far pos is through the trigger range, clamped.
// A zero-length range is a step at Start.
func (tr Trigger) Progress(pos float64) float64 {
	if tr.End == tr.Start {
		if pos >= tr.Start {
			return 1
		}
		return 0
	}
	return Clamp((pos - tr.Start) / (tr.End - tr.Start))
}

// Tween animates between two keyframes over a slice of a timeline.
type Tween struct {
	From     Keyframe
	To       Keyframe
	Ease     Ease
	Position float64 // start, in timeline units
	Duration float64 // length, in timeline units
}

// At returns the tween's keyframe at timeline time t.
func (tw Tween) At(t float64) Keyframe {
	if tw.Duration <= 0 {
		if t >= tw.Position {
			return tw.To
		}
		return tw.From
	}
	return Interpolate((t-tw.Position)/tw.Duration, tw.From, tw.To, tw.Ease)
}

// Timeline is a set of tweens positioned on a shared time axis, driven by
// normalized progress over its total length.
type Timeline struct {
	Tweens []Tween
}

// Add appends a tween and returns the timeline for chaining.
func (tl *Timeline) Add(tw Tween) *Timeline {
	tl.Tweens = append(tl.Tweens, tw)
	return tl
}

// Duration is the end of the latest tween.
func (tl *Timeline) Duration() float64 {
	var d float64
	for _, tw := range tl.Tweens {
		if end := tw.Position + tw.Duration; end > d {
			d = end
		}
	}
	return d
}

// At evaluates every tween at normalized progress in [0,1].
func (tl *Timeline) At(progress float64) []Keyframe {
	t := Clamp(progress) * tl.Duration()
	out := make([]Keyframe, len(tl.Tweens))
	for i, tw := range tl.Tweens {
		out[i] = tw.At(t)
	}
	return out
}
