package preview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/typewriter"
	"github.com/minuteai/minute-site/internal/waitlist"
)

func newTestPage(t *testing.T, r waitlist.Registrar) PageModel {
	t.Helper()
	m, err := NewPageModel(PageConfig{
		Site:          content.Default(),
		Registrar:     r,
		MarkdownStyle: "notty",
	})
	if err != nil {
		t.Fatalf("NewPageModel() error = %v", err)
	}
	t.Cleanup(m.Close)
	return send(m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func send(m PageModel, msg tea.Msg) PageModel {
	updated, _ := m.Update(msg)
	return updated.(PageModel)
}

// blockingRegistrar never answers until its context ends.
var blockingRegistrar = waitlist.RegistrarFunc(func(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
})

func TestNewPageModelRejectsEmptyPhrases(t *testing.T) {
	site := content.Default()
	site.Hero.Phrases = nil
	if _, err := NewPageModel(PageConfig{Site: site}); !errors.Is(err, typewriter.ErrNoPhrases) {
		t.Errorf("NewPageModel() error = %v, want ErrNoPhrases", err)
	}
}

func TestPageTypewriterTicks(t *testing.T) {
	m := newTestPage(t, blockingRegistrar)
	phrase := content.Default().Hero.Phrases[0]

	if got := m.Frame(); got.Text != "" || got.Direction != typewriter.Growing {
		t.Fatalf("initial frame = %+v", got)
	}

	m = send(m, typeTickMsg{gen: m.gen})
	m = send(m, typeTickMsg{gen: m.gen})
	if got := m.Frame().Text; got != phrase[:2] {
		t.Errorf("frame after two ticks = %q, want %q", got, phrase[:2])
	}

	// A tick from an abandoned chain is ignored.
	m = send(m, typeTickMsg{gen: m.gen + 1})
	if got := m.Frame().Text; got != phrase[:2] {
		t.Errorf("stale tick changed frame to %q", got)
	}

	if !strings.Contains(m.View(), phrase[:2]) {
		t.Error("View() does not show the typed prefix")
	}
}

func TestPageStreamFrames(t *testing.T) {
	m := newTestPage(t, blockingRegistrar)

	m = send(m, frameMsg(typewriter.Frame{Text: "Meeting", Index: 1, Direction: typewriter.Shrinking}))
	if got := m.Frame(); got.Text != "Meeting" || got.Index != 1 {
		t.Errorf("frame = %+v, want the streamed frame", got)
	}

	// A failed dial leaves the local cycle running.
	gen := m.gen
	m = send(m, streamClosedMsg{})
	if m.gen != gen {
		t.Errorf("gen = %d, want %d", m.gen, gen)
	}
}

func TestPageSectionJump(t *testing.T) {
	m := newTestPage(t, blockingRegistrar)

	if m.scrolled() {
		t.Fatal("nav scrolled at the top of the page")
	}
	if m.tops["problem"] == 0 || m.tops["waitlist"] <= m.tops["problem"] {
		t.Fatalf("section tops = %v", m.tops)
	}

	m = send(m, runes("1"))
	if m.viewport.YOffset != m.tops["problem"] {
		t.Errorf("YOffset = %d, want problem top %d", m.viewport.YOffset, m.tops["problem"])
	}
	if !m.scrolled() {
		t.Error("nav not scrolled after jumping down")
	}

	m = send(m, runes("g"))
	if m.viewport.YOffset != 0 {
		t.Errorf("YOffset after top = %d, want 0", m.viewport.YOffset)
	}
}

func TestPageJoinAndSubmit(t *testing.T) {
	m := newTestPage(t, blockingRegistrar)

	if m.keys.Retry.Enabled() {
		t.Error("retry enabled before any failure")
	}

	m = send(m, runes("w"))
	if !m.form.focused {
		t.Fatal("join did not focus the form")
	}
	if m.viewport.YOffset == 0 {
		t.Error("join did not scroll toward the waitlist")
	}

	// Keys that browse the page are typed into the focused input.
	for _, r := range "dev@example.com" {
		m = send(m, runes(string(r)))
	}
	if got := m.FormSnapshot().Email; got != "dev@example.com" {
		t.Fatalf("controller email = %q", got)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.FormSnapshot().State; got != waitlist.Submitting {
		t.Errorf("state = %v, want submitting", got)
	}

	m = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.form.focused {
		t.Error("esc did not leave the form")
	}
}

func TestPageView(t *testing.T) {
	m := newTestPage(t, blockingRegistrar)
	site := content.Default()

	view := m.View()
	for _, want := range []string{site.Brand, site.Nav.CTA.Label, site.Nav.Links[0].Label} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m = send(m, runes("?"))
	if !m.help.ShowAll {
		t.Error("? did not expand help")
	}
}
