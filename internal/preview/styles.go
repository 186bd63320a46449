package preview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/minuteai/minute-site/internal/ui"
	"github.com/minuteai/minute-site/internal/version"
)

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72  // Minimum supported terminal width
	MaxContentWidth  = 120 // Page content is capped and centred beyond this

	// Rows taken by the container: outer border, header, and footer.
	chromeHeight = 6
)

// Color palette
var (
	AlarmColor      = ui.AlarmColor
	BackgroundColor = ui.VoidColor
	TextColor       = ui.TextColor
	SubtleColor     = ui.MutedColor
	SuccessColor    = ui.SuccessColor
	ErrorColor      = ui.ErrorColor
	WarningColor    = ui.WarningColor
	BorderColor     = lipgloss.Color("#2A2A33")
	PanelColor      = lipgloss.Color("#15151C") // Nav background once scrolled
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(AlarmColor).
			Bold(true).
			Padding(1, 0)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(AlarmColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(AlarmColor).
			Bold(true).
			Padding(0, 2)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Background(BorderColor).
				Padding(0, 2)

	FocusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(AlarmColor).
				Padding(0, 1)

	BlurredInputStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(BorderColor).
				Padding(0, 1)

	NavStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	ScrolledNavStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PanelColor)
)

// BuildHeaderContent renders the navigation bar: brand, numbered section
// links, and the call to action.
func BuildHeaderContent(brand string, links []string, cta string, scrolled bool) string {
	style := NavStyle
	if scrolled {
		style = ScrolledNavStyle
	}

	left := style.Bold(true).Render(brand)
	for i, l := range links {
		left += style.Render("  ") + style.Foreground(SubtleColor).Render(string(rune('1'+i))+" ") + style.Render(l)
	}
	right := style.Foreground(AlarmColor).Bold(true).Render(cta + " (w)")
	return lipgloss.JoinHorizontal(lipgloss.Top, left, style.Render("   "), right)
}

// BuildFooterContent joins the scroll progress bar and the help line.
func BuildFooterContent(progress, helpText string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		progress,
		"  ",
		lipgloss.NewStyle().Foreground(SubtleColor).Render(helpText),
	)
}

// versionLabel returns the build version shown by the discovery screen.
func versionLabel() string {
	return "v" + version.Version
}

// RenderApplicationContainer wraps every screen: a header row with a bottom
// rule, the content area, a footer row with a top rule, all inside an outer
// border filling the terminal.
func RenderApplicationContainer(header, content, footer string, terminalWidth, terminalHeight int, headerFill bool) string {
	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)
	if headerFill {
		headerStyle = headerStyle.Background(PanelColor)
	}

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(footer),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}
