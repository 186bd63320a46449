package preview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/motion"
)

// section is one block of the page. render receives the section's top edge
// relative to the viewport top, in rows; the number of lines it returns must
// not depend on that position.
type section struct {
	anchor string
	render func(m *PageModel, top int) string
}

func (m *PageModel) sections() []section {
	out := []section{
		{"hero", (*PageModel).heroView},
		{"problem", (*PageModel).problemView},
	}
	for i := range m.site.Truths {
		anchor := ""
		if i == 0 {
			anchor = "truths"
		}
		i := i
		out = append(out, section{anchor, func(m *PageModel, top int) string {
			return m.truthView(i, top)
		}})
	}
	return append(out,
		section{"demo", (*PageModel).demoView},
		section{"waitlist", (*PageModel).waitlistView},
		section{"footer", (*PageModel).footerView},
	)
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func (m *PageModel) heroView(_ int) string {
	h := m.site.Hero
	vh := float64(m.viewport.Height)
	exit := motion.HeroExit()
	ps := paintsOf(exit.At(motion.HeroExitTrigger(vh).Progress(float64(m.viewport.YOffset))))
	w := m.blockWidth()

	headline := at(ps, 0).style(lipgloss.NewStyle().Bold(true), TextColor).Width(w).Render(h.Headline)
	sub := at(ps, 1).style(lipgloss.NewStyle(), SubtleColor).Width(w).Render(h.Subheadline)

	cursor := " "
	if (m.elapsed/(500*time.Millisecond))%2 == 0 {
		cursor = "▍"
	}
	prompt := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1).
		Width(w - 2).
		Render(lipgloss.NewStyle().Foreground(SubtleColor).Render(h.PromptLabel+" ›  ") +
			lipgloss.NewStyle().Foreground(TextColor).Render(m.frame.Text) +
			lipgloss.NewStyle().Foreground(AlarmColor).Render(cursor))

	cta := ButtonStyle.Background(at(ps, 2).fg(AlarmColor)).Foreground(at(ps, 2).fg(TextColor)).Render(h.CTA + " (w)")
	trust := at(ps, 3).style(SubtitleStyle, SubtleColor).Width(w).Render(h.Trust)

	block := strings.Join([]string{
		"",
		at(ps, 0).place(headline),
		"",
		at(ps, 1).place(sub),
		"",
		solid.place(prompt),
		"",
		at(ps, 2).place(cta),
		at(ps, 3).place(trust),
		"",
	}, "\n")

	if n := lipgloss.Height(block); n < m.viewport.Height {
		block += strings.Repeat("\n", m.viewport.Height-n)
	}
	return block
}

func (m *PageModel) problemView(top int) string {
	p := m.site.Problem
	w := m.blockWidth()
	ps := paintsOf(motion.ProblemReveal().At(float64(top), float64(m.viewport.Height)))

	return strings.Join([]string{
		"",
		at(ps, 0).place(at(ps, 0).style(lipgloss.NewStyle().Bold(true), AlarmColor).Render(strings.ToUpper(p.Label))),
		"",
		at(ps, 1).place(at(ps, 1).style(lipgloss.NewStyle().Bold(true), TextColor).Width(w).Render(p.Headline)),
		"",
		at(ps, 2).place(at(ps, 2).style(lipgloss.NewStyle(), SubtleColor).Width(w).Render(p.Body)),
		"",
		at(ps, 3).place(at(ps, 3).style(lipgloss.NewStyle().Italic(true), TextColor).Width(w).Render(p.Closing)),
		"",
	}, "\n")
}

func (m *PageModel) truthView(i, top int) string {
	t := m.site.Truths[i]
	ps := paintsOf(motion.TruthReveal().At(float64(top), float64(m.viewport.Height)))

	twoColumn := m.pageWidth() >= 2*MinTerminalWidth-20
	colWidth := m.blockWidth()
	if twoColumn {
		colWidth = (m.pageWidth() - 4*maxShift) / 2
	}

	text := func(p paint) string {
		head := p.style(lipgloss.NewStyle().Bold(true), AlarmColor).Render(t.Number) + "  " +
			p.style(lipgloss.NewStyle().Bold(true), TextColor).Render(t.Title)
		return p.place(wrap(head, colWidth)) + "\n" + p.placeMarkdown(m.md.render(t.Body, colWidth))
	}
	visual := func(p paint) string {
		return p.place(truthVisual(t.Visual, p, colWidth))
	}

	if !twoColumn {
		return strings.Join([]string{"", text(at(ps, 0)), "", visual(at(ps, 1)), ""}, "\n")
	}

	// Every second card puts its visual on the left.
	left, right := text(at(ps, 0)), visual(at(ps, 1))
	if i%2 == 1 {
		left, right = visual(at(ps, 0)), text(at(ps, 1))
	}
	left = lipgloss.NewStyle().Width(colWidth + 2*maxShift).Render(left)
	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n"
}

func truthVisual(v content.Visual, p paint, width int) string {
	var rows []string
	if v.Caption != "" {
		rows = append(rows, p.style(lipgloss.NewStyle().Bold(true), AlarmColor).Render(v.Caption))
	}
	if v.Quote != "" {
		rows = append(rows, p.style(lipgloss.NewStyle().Italic(true), TextColor).Render("“"+v.Quote+"”"))
	}
	for _, line := range v.Lines {
		rows = append(rows, inlineLine(line, p))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.fg(BorderColor)).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(rows, "\n"))
}

// inlineLine renders a visual line, honouring a ~~struck~~ wrapper.
func inlineLine(line string, p paint) string {
	style := lipgloss.NewStyle()
	if strings.HasPrefix(line, "~~") && strings.HasSuffix(line, "~~") && len(line) > 4 {
		line = strings.TrimSuffix(strings.TrimPrefix(line, "~~"), "~~")
		return p.style(style.Strikethrough(true), SubtleColor).Render(line)
	}
	return p.style(style, TextColor).Render(line)
}

func (m *PageModel) demoView(top int) string {
	d := m.site.Demo
	ps := paintsOf(motion.DemoReveal().At(float64(top), float64(m.viewport.Height)))
	colWidth := (m.pageWidth() - 4*maxShift) / 2

	mind := []string{at(ps, 0).style(lipgloss.NewStyle().Bold(true), SubtleColor).Render(d.MindTitle), ""}
	secs := m.elapsed.Seconds()
	for i, th := range d.Thoughts {
		p := at(ps, 0).scaled(th.Opacity)
		color := TextColor
		style := lipgloss.NewStyle()
		switch {
		case th.Urgent:
			color = AlarmColor
			style = style.Bold(true)
		case th.Ghosted:
			style = style.Italic(true)
		case th.Fading:
			style = style.Faint(true)
		}
		wobble := strings.Repeat(" ", int(motion.Bob(i, secs)/3))
		mind = append(mind, wobble+p.style(style, color).Render(th.Text))
	}

	cal := []string{at(ps, 1).style(lipgloss.NewStyle().Bold(true), SubtleColor).Render(d.CalendarTitle), ""}
	for _, day := range d.Days() {
		cal = append(cal, at(ps, 1).style(lipgloss.NewStyle().Bold(true), AlarmColor).Render(day))
		for _, e := range d.EventsOn(day) {
			line := at(ps, 1).style(lipgloss.NewStyle(), SubtleColor).Render(fmt.Sprintf("  %-16s", e.Time)) +
				at(ps, 1).style(lipgloss.NewStyle(), TextColor).Render(e.Title)
			if e.Subtitle != "" {
				line += at(ps, 1).style(lipgloss.NewStyle().Italic(true), SubtleColor).Render(" · " + e.Subtitle)
			}
			cal = append(cal, line)
		}
	}

	left := lipgloss.NewStyle().Width(colWidth + 2*maxShift).Render(at(ps, 0).place(wrap(strings.Join(mind, "\n"), colWidth)))
	right := at(ps, 1).place(wrap(strings.Join(cal, "\n"), colWidth))

	return strings.Join([]string{
		"",
		solid.place(lipgloss.NewStyle().Bold(true).Foreground(TextColor).Width(m.blockWidth()).Render(d.Headline)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		"",
		at(ps, 2).place(at(ps, 2).style(SubtitleStyle, SubtleColor).Width(m.blockWidth()).Render(d.Caption)),
		"",
	}, "\n")
}

func (m *PageModel) waitlistView(top int) string {
	wl := m.site.Waitlist
	w := m.blockWidth()
	ps := paintsOf(motion.WaitlistReveal().At(float64(top), float64(m.viewport.Height)))
	p := at(ps, 0)

	rows := []string{
		p.style(lipgloss.NewStyle().Bold(true), TextColor).Width(w).Render(wl.Headline),
		"",
		p.style(lipgloss.NewStyle(), SubtleColor).Width(w).Render(wl.Subtext),
		"",
	}
	for _, b := range wl.Benefits {
		rows = append(rows, p.style(lipgloss.NewStyle(), AlarmColor).Render("✓ ")+p.style(lipgloss.NewStyle(), TextColor).Render(b))
	}

	proof := p.style(lipgloss.NewStyle().Bold(true), TextColor).Render(wl.SocialProofLine(m.form.ahead))
	quote := p.style(SubtitleStyle, SubtleColor).Width(w).Render("“" + wl.Quote + "” — " + wl.Attribution)

	return strings.Join([]string{
		"",
		p.place(strings.Join(rows, "\n")),
		"",
		at(ps, 1).place(m.form.view(wl, at(ps, 1), min(w, 60))),
		"",
		p.place(proof),
		p.place(quote),
		"",
	}, "\n")
}

func (m *PageModel) footerView(_ int) string {
	f := m.site.Footer
	line := f.Copyright
	if len(f.Badges) > 0 {
		line += "  ·  " + strings.Join(f.Badges, "  ·  ")
	}
	return solid.place(lipgloss.NewStyle().Foreground(SubtleColor).Render(line))
}
