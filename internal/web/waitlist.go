package web

import (
	"strconv"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/motion"
	"github.com/minuteai/minute-site/internal/waitlist"
)

// FormState is what the waitlist form shows. It mirrors a controller
// snapshot plus a message for feedback that did not change state, such as
// an invalid address.
type FormState struct {
	State   waitlist.State
	Email   string
	Message string
}

// FormStateFrom builds the form view of a controller snapshot. msg, when
// non-empty, overrides the snapshot's error text.
func FormStateFrom(snap waitlist.Snapshot, msg string) FormState {
	if msg == "" && snap.Err != nil {
		msg = waitlist.GetShortErrorMessage(snap.Err)
	}
	return FormState{State: snap.State, Email: snap.Email, Message: msg}
}

// WaitlistSection is the signup section.
func WaitlistSection(w content.Waitlist, form FormState, ahead int) g.Node {
	sc := motion.WaitlistReveal()
	return Section(
		ID("waitlist"),
		Class("waitlist"),
		scene("waitlist", sc),
		Div(Class("waitlist-copy"), tween(sc.Timeline, 0, "out"),
			H2(g.Text(w.Headline)),
			P(g.Text(w.Subtext)),
			Ul(Class("benefits"), g.Map(w.Benefits, func(b string) g.Node {
				return Li(g.Text(b))
			})),
		),
		Div(Class("waitlist-card"), tween(sc.Timeline, 1, "out"),
			waitlistForm(w, form),
			P(ID("social-proof"), Class("social-proof"),
				g.Attr("data-ahead", strconv.Itoa(ahead)),
				g.Text(w.SocialProofLine(ahead)),
			),
			BlockQuote(Class("testimonial"),
				P(g.Text(w.Quote)),
				g.El("cite", g.Text(w.Attribution)),
			),
		),
	)
}

func waitlistForm(w content.Waitlist, form FormState) g.Node {
	if form.State == waitlist.Succeeded {
		return Div(ID("waitlist-success"), Class("waitlist-success"), Role("status"),
			H3(g.Text(w.SuccessTitle)),
			P(g.Text(w.SuccessBody)),
		)
	}

	submitting := form.State == waitlist.Submitting
	label := w.Button
	switch form.State {
	case waitlist.Submitting:
		label = w.Submitting
	case waitlist.Failed:
		label = w.Retry
	}

	return g.El("form",
		ID("waitlist-form"),
		Class("waitlist-form"),
		Method("post"),
		Action(FormPath),
		g.Attr("data-state", form.State.String()),
		g.Attr("data-submitting", w.Submitting),
		g.Attr("data-retry", w.Retry),
		g.Attr("data-success-title", w.SuccessTitle),
		g.Attr("data-success-body", w.SuccessBody),
		Input(
			ID("waitlist-email"),
			Type("email"),
			Name("email"),
			Placeholder(w.Placeholder),
			AutoComplete("email"),
			Required(),
			Value(form.Email),
			g.If(submitting, ReadOnly()),
		),
		Button(
			Type("submit"),
			Class("btn btn-alarm"),
			g.If(submitting, Disabled()),
			g.Text(label),
		),
		g.If(form.Message != "",
			P(ID("waitlist-error"), Class("form-error"), Role("alert"), g.Text(form.Message)),
		),
	)
}
