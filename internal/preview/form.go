package preview

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/waitlist"
)

// submitDoneMsg carries the controller state once a registration call ends.
type submitDoneMsg struct {
	snap waitlist.Snapshot
}

// countMsg carries the waitlist size fetched from a site server.
type countMsg struct {
	count *waitlist.CountResponse
	err   error
}

// counter is implemented by registrars that can report the waitlist size.
type counter interface {
	Count(ctx context.Context) (*waitlist.CountResponse, error)
}

// formModel is the waitlist form. Every edit and submission goes through
// the controller; the model only mirrors its snapshot.
type formModel struct {
	ctrl      *waitlist.Controller
	registrar waitlist.Registrar
	input     textinput.Model
	spinner   spinner.Model
	focused   bool
	snap      waitlist.Snapshot
	message   string // visible feedback for a rejected action
	ahead     int
}

func newFormModel(wl content.Waitlist, r waitlist.Registrar, opts ...waitlist.Option) formModel {
	in := textinput.New()
	in.Placeholder = wl.Placeholder
	in.CharLimit = 254
	in.Width = 36
	in.Prompt = "✉ "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ctrl := waitlist.NewController(r, opts...)
	return formModel{
		ctrl:      ctrl,
		registrar: r,
		input:     in,
		spinner:   s,
		snap:      ctrl.Snapshot(),
		ahead:     wl.SocialProofBase,
	}
}

// fetchCount asks the registrar for the live waitlist size, if it can.
func (f formModel) fetchCount() tea.Cmd {
	c, ok := f.registrar.(counter)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		count, err := c.Count(context.Background())
		return countMsg{count: count, err: err}
	}
}

// waitCmd blocks until the in-flight call ends.
func waitCmd(ctrl *waitlist.Controller) tea.Cmd {
	return func() tea.Msg {
		snap, _ := ctrl.Wait(context.Background())
		return submitDoneMsg{snap: snap}
	}
}

func (f formModel) focus() (formModel, tea.Cmd) {
	if f.snap.State == waitlist.Succeeded {
		return f, nil
	}
	f.focused = true
	return f, f.input.Focus()
}

func (f formModel) blur() formModel {
	f.focused = false
	f.input.Blur()
	return f
}

// submit starts a registration for the current value.
func (f formModel) submit() (formModel, tea.Cmd) {
	return f.start(f.ctrl.Submit)
}

// retry resubmits the retained address after a failure.
func (f formModel) retry() (formModel, tea.Cmd) {
	return f.start(f.ctrl.Retry)
}

func (f formModel) start(op func(context.Context) error) (formModel, tea.Cmd) {
	if err := op(context.Background()); err != nil {
		f.message = waitlist.GetShortErrorMessage(err)
		f.snap = f.ctrl.Snapshot()
		return f, nil
	}
	f.message = ""
	f.snap = f.ctrl.Snapshot()
	return f, tea.Batch(f.spinner.Tick, waitCmd(f.ctrl))
}

// edit applies a key to the input and hands the new value to the controller.
// A locked controller reverts the input.
func (f formModel) edit(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)
	after := f.input.Value()
	if after == before {
		return f, cmd
	}

	if err := f.ctrl.SetEmail(after); err != nil {
		f.input.SetValue(f.ctrl.Email())
		f.message = waitlist.GetShortErrorMessage(err)
	} else {
		f.message = ""
	}
	f.snap = f.ctrl.Snapshot()
	return f, cmd
}

// update handles the asynchronous messages of the form.
func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case submitDoneMsg:
		f.snap = msg.snap
		switch msg.snap.State {
		case waitlist.Succeeded:
			f.input.SetValue("")
			f = f.blur()
			if h, ok := f.registrar.(*waitlist.HTTPRegistrar); ok && h.Last != nil {
				f.ahead = h.Last.Ahead
			}
		case waitlist.Failed:
			f.message = waitlist.GetShortErrorMessage(msg.snap.Err)
		}
		return f, nil

	case countMsg:
		if msg.err == nil && msg.count != nil && f.snap.State != waitlist.Succeeded {
			f.ahead = msg.count.Ahead
		}
		return f, nil

	case spinner.TickMsg:
		if f.snap.State != waitlist.Submitting {
			return f, nil
		}
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f formModel) close() {
	f.ctrl.Close()
}

// view renders the form box for the given copy and paint.
func (f formModel) view(wl content.Waitlist, p paint, width int) string {
	box, border := BlurredInputStyle, BorderColor
	if f.focused {
		box, border = FocusedInputStyle, AlarmColor
	}
	box = box.BorderForeground(p.fg(border)).Width(width - 2)

	if f.snap.State == waitlist.Succeeded {
		return box.Render(lipgloss.JoinVertical(lipgloss.Left,
			p.style(lipgloss.NewStyle().Bold(true), SuccessColor).Render("✓ "+wl.SuccessTitle),
			p.style(lipgloss.NewStyle(), TextColor).Render(wl.SuccessBody),
		))
	}

	label, button, fill := wl.Button+" (enter)", ButtonStyle, AlarmColor
	switch f.snap.State {
	case waitlist.Submitting:
		label, button, fill = f.spinner.View()+" "+wl.Submitting, DisabledButtonStyle, BorderColor
	case waitlist.Failed:
		label = wl.Retry + " (r)"
	default:
		if !f.focused {
			button, fill = DisabledButtonStyle, BorderColor
		}
	}

	rows := []string{
		f.input.View(),
		"",
		button.Background(p.fg(fill)).Render(label),
	}
	if f.message != "" {
		rows = append(rows, "", p.style(ErrorStyle, ErrorColor).Render(f.message))
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
