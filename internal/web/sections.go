package web

import (
	"fmt"
	"strconv"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/motion"
	"github.com/minuteai/minute-site/internal/typewriter"
)

// NavBar is the fixed top navigation. The script adds the "scrolled" class
// once the page has scrolled past ScrolledAfter pixels.
func NavBar(brand string, n content.Nav) g.Node {
	return Nav(
		ID("nav"),
		Class("nav"),
		g.Attr("data-scrolled-after", strconv.Itoa(n.ScrolledAfter)),
		A(Class("brand"), Href("#"), g.Text(brand)),
		Div(Class("nav-links"),
			g.Map(n.Links, func(l content.Link) g.Node {
				return A(Href(l.Href()), g.Text(l.Label))
			}),
		),
		A(Class("btn btn-alarm"), Href(n.CTA.Href()), g.Text(n.CTA.Label)),
	)
}

// HeroSection is the first screen. frame is the typewriter state at render
// time; the script keeps it moving from the websocket stream.
func HeroSection(h content.Hero, frame typewriter.Frame) g.Node {
	exit := motion.HeroExit()
	words := h.HeadlineWords()

	return Section(
		ID("hero"),
		Class("hero"),
		g.Attr("data-exit", "1.2"),
		g.Attr("data-duration", num(exit.Duration())),
		H1(Class("hero-headline"), tween(exit, 0, "in"),
			g.Map(indexed(words), func(w word) g.Node {
				return Span(
					Class("word"),
					g.Attr("style", fmt.Sprintf("--i: %d", w.i)),
					g.Text(w.text),
				)
			}),
		),
		P(Class("hero-sub"), tween(exit, 1, "in"), g.Text(h.Subheadline)),
		Div(Class("prompt"), Role("img"), Aria("label", h.PromptLabel+": "+frame.Text),
			Span(Class("prompt-label"), g.Text(h.PromptLabel)),
			Span(
				ID("typewriter"),
				Class("prompt-text"),
				g.Attr("data-index", strconv.Itoa(frame.Index)),
				g.Text(frame.Text),
			),
			Span(Class("cursor"), Aria("hidden", "true")),
		),
		A(Class("btn btn-alarm hero-cta"), Href("#waitlist"), tween(exit, 2, "in"), g.Text(h.CTA)),
		P(Class("hero-trust"), tween(exit, 3, "in"), g.Text(h.Trust)),
	)
}

type word struct {
	i    int
	text string
}

func indexed(words []string) []word {
	out := make([]word, len(words))
	for i, w := range words {
		out[i] = word{i: i, text: w}
	}
	return out
}

// ProblemSection is the problem statement.
func ProblemSection(p content.Problem) g.Node {
	sc := motion.ProblemReveal()
	return Section(
		ID("problem"),
		Class("problem"),
		scene("problem", sc),
		Span(Class("label"), tween(sc.Timeline, 0, "out"), g.Text(p.Label)),
		H2(tween(sc.Timeline, 1, "out"), g.Text(p.Headline)),
		P(Class("problem-body"), tween(sc.Timeline, 2, "out"), g.Text(p.Body)),
		P(Class("problem-closing"), tween(sc.Timeline, 3, "out"), g.Text(p.Closing)),
	)
}

// TruthsSection is the three feature cards. Every second card puts its
// visual on the left.
func TruthsSection(truths []content.Truth) g.Node {
	return Section(
		ID("truths"),
		Class("truths"),
		g.Map(indexedTruths(truths), func(t numberedTruth) g.Node {
			sc := motion.TruthReveal()
			text := Div(Class("truth-text"),
				Span(Class("truth-number"), g.Text(t.Number)),
				H3(g.Text(t.Title)),
				Div(Class("truth-body"), markdown(t.Body)),
			)
			visual := truthVisual(t.Visual)
			left, right := text, visual
			if t.i%2 == 1 {
				left, right = visual, text
			}
			return Article(
				Class("truth"),
				scene("truth-"+t.Number, sc),
				Div(Class("truth-half"), tween(sc.Timeline, 0, "out"), left),
				Div(Class("truth-half"), tween(sc.Timeline, 1, "out"), right),
			)
		}),
	)
}

type numberedTruth struct {
	content.Truth
	i int
}

func indexedTruths(truths []content.Truth) []numberedTruth {
	out := make([]numberedTruth, len(truths))
	for i, t := range truths {
		out[i] = numberedTruth{Truth: t, i: i}
	}
	return out
}

func truthVisual(v content.Visual) g.Node {
	return Div(Class("visual"),
		Span(Class("visual-caption"), g.Text(v.Caption)),
		g.If(v.Quote != "", BlockQuote(g.Text(v.Quote))),
		Ul(g.Map(v.Lines, func(line string) g.Node {
			return Li(inlineMarkdown(line))
		})),
	)
}

// DemoSection contrasts a cluttered mind with a planned week.
func DemoSection(d content.Demo) g.Node {
	sc := motion.DemoReveal()
	return Section(
		ID("demo"),
		Class("demo"),
		scene("demo", sc),
		H2(g.Text(d.Headline)),
		Div(Class("demo-grid"),
			Div(Class("mind"), tween(sc.Timeline, 0, "out"),
				H3(g.Text(d.MindTitle)),
				Div(Class("thoughts"), thoughts(d.Thoughts)),
			),
			Div(Class("calendar"), tween(sc.Timeline, 1, "out"),
				H3(g.Text(d.CalendarTitle)),
				g.Map(d.Days(), func(day string) g.Node {
					return Div(Class("day"),
						Span(Class("day-name"), g.Text(day)),
						g.Map(d.EventsOn(day), event),
					)
				}),
			),
		),
		P(Class("demo-caption"), tween(sc.Timeline, 2, "out"), g.Text(d.Caption)),
	)
}

func thoughts(items []content.Thought) g.Node {
	nodes := make([]g.Node, len(items))
	for i, t := range items {
		duration, delay := motion.BobTiming(i)
		nodes[i] = Div(
			c.Classes{
				"thought": true,
				"urgent":  t.Urgent,
				"fading":  t.Fading,
				"ghosted": t.Ghosted,
			},
			g.Attr("style", fmt.Sprintf("opacity: %s; animation-duration: %ss; animation-delay: %ss",
				num(t.Opacity), num(duration), num(delay))),
			g.Text(t.Text),
		)
	}
	return g.Group(nodes)
}

func event(e content.Event) g.Node {
	return Div(Class("event"),
		Span(Class("event-time"), g.Text(e.Time)),
		Span(Class("event-title"), g.Text(e.Title)),
		g.If(e.Subtitle != "", Span(Class("event-subtitle"), g.Text(e.Subtitle))),
	)
}

// SiteFooter is the page footer.
func SiteFooter(brand string, f content.Footer) g.Node {
	return Footer(
		Class("footer"),
		Span(Class("brand"), g.Text(brand)),
		Span(Class("copyright"), g.Text(f.Copyright)),
		Div(Class("badges"), g.Map(f.Badges, func(b string) g.Node {
			return Span(Class("badge"), g.Text(b))
		})),
	)
}
