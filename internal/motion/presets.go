package motion

import "math"

// DefaultDuration is the length of a tween with no explicit duration.
const DefaultDuration = 0.5

// Scene is a timeline bound to a scroll trigger expressed as viewport
// fractions: progress runs from 0 when the section's top edge sits at
// StartFrac of the viewport height to 1 when it reaches EndFrac.
type Scene struct {
	StartFrac float64
	EndFrac   float64
	Timeline  Timeline
}

// Trigger returns the scroll trigger for a viewport of the given height.
func (s Scene) Trigger(viewport float64) Trigger {
	return Trigger{Start: s.StartFrac * viewport, End: s.EndFrac * viewport}
}

// At evaluates the scene for a section whose top edge is at top, measured
// from the top of the viewport.
func (s Scene) At(top, viewport float64) []Keyframe {
	return s.Timeline.At(s.Trigger(viewport).Progress(top))
}

func fadeUp(dy, position float64) Tween {
	return Tween{
		From:     Keyframe{Opacity: 0, Y: dy, Scale: 1},
		To:       Visible,
		Ease:     Power2Out,
		Position: position,
		Duration: DefaultDuration,
	}
}

func slideIn(dx, position float64) Tween {
	return Tween{
		From:     Keyframe{Opacity: 0, X: dx, Scale: 1},
		To:       Visible,
		Ease:     Power2Out,
		Position: position,
		Duration: DefaultDuration,
	}
}

// ProblemReveal fades in the label, headline, body, and closing line.
func ProblemReveal() Scene {
	s := Scene{StartFrac: 0.8, EndFrac: 0.2}
	s.Timeline.
		Add(fadeUp(20, 0)).
		Add(fadeUp(30, 0.1)).
		Add(fadeUp(30, 0.2)).
		Add(fadeUp(20, 0.3))
	return s
}

// TruthReveal slides a truth card's two halves in from opposite sides. The
// first tween is the half on the left.
func TruthReveal() Scene {
	s := Scene{StartFrac: 0.75, EndFrac: 0.25}
	s.Timeline.
		Add(slideIn(-40, 0)).
		Add(slideIn(40, 0.1))
	return s
}

// DemoReveal slides in the "mind at 2 AM" column, the calendar, then the caption.
func DemoReveal() Scene {
	s := Scene{StartFrac: 0.7, EndFrac: 0.2}
	s.Timeline.
		Add(slideIn(-30, 0)).
		Add(slideIn(30, 0.1)).
		Add(fadeUp(20, 0.2))
	return s
}

// WaitlistReveal fades the copy up and grows the form into place.
func WaitlistReveal() Scene {
	s := Scene{StartFrac: 0.75, EndFrac: 0.25}
	s.Timeline.
		Add(fadeUp(30, 0)).
		Add(Tween{
			From:     Keyframe{Opacity: 0, Scale: 0.98},
			To:       Visible,
			Ease:     Power2Out,
			Position: 0.1,
			Duration: DefaultDuration,
		})
	return s
}

// HeroExit lifts and fades the hero as the page scrolls past it. Y offsets
// are in hundredths of the viewport height. Progress runs over the first
// 120% of a viewport of scrolling.
func HeroExit() Timeline {
	exit := func(dy, position float64) Tween {
		return Tween{
			From:     Visible,
			To:       Keyframe{Opacity: 0, Y: dy, Scale: 1},
			Ease:     Power2In,
			Position: position,
			Duration: DefaultDuration,
		}
	}
	var tl Timeline
	tl.Add(exit(-10, 0)).
		Add(exit(-8, 0.05)).
		Add(exit(-6, 0.1)).
		Add(exit(0, 0.1))
	return tl
}

// HeroExitTrigger is the scroll range of HeroExit for a viewport height.
func HeroExitTrigger(viewport float64) Trigger {
	return Trigger{Start: 0, End: 1.2 * viewport}
}

// Bob returns the vertical offset of the i-th floating thought at time t
// seconds: a 6-unit sine yoyo with a period that varies per item.
func Bob(i int, t float64) float64 {
	duration, delay := BobTiming(i)
	t -= delay
	if t <= 0 {
		return 0
	}
	phase := math.Mod(t, 2*duration) / duration
	if phase > 1 {
		phase = 2 - phase
	}
	return 6 * SineInOut(phase)
}

// BobTiming returns the half-period and start delay, in seconds, of the i-th
// floating thought.
func BobTiming(i int) (duration, delay float64) {
	return 3 + float64(i%3)*0.8, float64(i) * 0.15
}
