package web

import (
	"strconv"

	g "maragu.dev/gomponents"

	"github.com/minuteai/minute-site/internal/motion"
)

// scene marks a section as a scroll-triggered scene. The script maps the
// section's position to scene progress.
func scene(name string, s motion.Scene) g.Node {
	return g.Group([]g.Node{
		g.Attr("data-scene", name),
		g.Attr("data-start", num(s.StartFrac)),
		g.Attr("data-end", num(s.EndFrac)),
		g.Attr("data-duration", num(s.Timeline.Duration())),
	})
}

// tween binds an element to the i-th tween of its scene.
func tween(tl motion.Timeline, i int, ease string) g.Node {
	if i >= len(tl.Tweens) {
		return nil
	}
	tw := tl.Tweens[i]
	from, to := tw.From, tw.To
	return g.Group([]g.Node{
		g.Attr("data-tween", strconv.Itoa(i)),
		g.Attr("data-at", num(tw.Position)),
		g.Attr("data-for", num(tw.Duration)),
		g.Attr("data-ease", ease),
		g.Attr("data-from", keyframe(from)),
		g.Attr("data-to", keyframe(to)),
	})
}

// keyframe encodes a keyframe as "opacity x y scale".
func keyframe(k motion.Keyframe) string {
	return num(k.Opacity) + " " + num(k.X) + " " + num(k.Y) + " " + num(k.Scale)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
