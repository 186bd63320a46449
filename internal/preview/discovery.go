package preview

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minuteai/minute-site/internal/discovery"
)

// ScanFunc browses the network for site servers.
type ScanFunc func(ctx context.Context) ([]*discovery.Site, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	sites []*discovery.Site
	err   error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Skip   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Skip, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Skip, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual URL entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// siteItem wraps a Site for use with bubbles/list
type siteItem struct {
	site *discovery.Site
}

func (s siteItem) FilterValue() string {
	return s.site.Instance + " " + s.site.Host + " " + s.site.IP
}

// siteDelegate renders a site as a two-line card.
type siteDelegate struct{}

func (d siteDelegate) Height() int { return 2 }

func (d siteDelegate) Spacing() int { return 1 }

func (d siteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d siteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(siteItem)
	if !ok {
		return
	}
	site := si.site

	name := "  " + site.Instance
	if index == m.Index() {
		name = lipgloss.NewStyle().Foreground(AlarmColor).Bold(true).Render("→ " + site.Instance)
	}

	ver := site.GetMetadata(discovery.TxtVersion)
	if ver == "" {
		ver = "unknown"
	}
	detail := SubtitleStyle.Render(fmt.Sprintf("    %s • %s", site.BaseURL(), ver))

	fmt.Fprint(w, name+"\n"+detail)
}

// Choice is the outcome of the discovery screen: a server base URL, or
// empty for the offline simulation.
type Choice struct {
	BaseURL string
}

// DiscoveryModel represents the site discovery screen state
type DiscoveryModel struct {
	scan    ScanFunc
	timeout time.Duration

	// Discovery state
	Scanning bool
	SiteList list.Model
	Err      error
	Chosen   *Choice

	// Manual URL entry state
	ManualMode bool
	URLInput   textinput.Model
	inputErr   string

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap
}

// NewDiscoveryModel creates a discovery screen that scans with scan for up
// to timeout.
func NewDiscoveryModel(scan ScanFunc, timeout time.Duration) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	in := textinput.New()
	in.Placeholder = "http://studio.local:8080"
	in.CharLimit = 256
	in.Width = 40

	bar := progress.New(progress.WithSolidFill(string(AlarmColor)))
	bar.Width = 40

	sites := list.New([]list.Item{}, siteDelegate{}, 0, 0)
	sites.Title = "Site servers on your network"
	sites.SetShowStatusBar(false)
	sites.SetShowHelp(false)
	sites.SetFilteringEnabled(false)
	sites.Styles.Title = TitleStyle

	keys := discoveryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "enter URL"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "offline"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	manualKeys := manualModeKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	if timeout <= 0 {
		timeout = discovery.DefaultScanTimeout
	}

	return DiscoveryModel{
		scan:        scan,
		timeout:     timeout,
		SiteList:    sites,
		URLInput:    in,
		Spinner:     s,
		ProgressBar: bar,
		Help:        help.New(),
		Keys:        keys,
		ManualKeys:  manualKeys,
	}
}

// Init starts scanning immediately
func (m DiscoveryModel) Init() tea.Cmd {
	return m.startScan()
}

func (m DiscoveryModel) startScan() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		m.scanSites,
		m.Spinner.Tick,
	)
}

// scanSites is a command that performs site discovery
func (m DiscoveryModel) scanSites() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout+time.Second)
	defer cancel()
	sites, err := m.scan(ctx)
	return scanCompleteMsg{sites: sites, err: err}
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.SiteList.SetWidth(max(msg.Width-4, 0))
		m.SiteList.SetHeight(max(msg.Height-10, 0))

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.sites))
		for i, s := range msg.sites {
			items[i] = siteItem{site: s}
		}
		m.SiteList.SetItems(items)

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, cmd
}

// updateNormalMode handles keyboard input in the site list
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Enter):
		if item, ok := m.SiteList.SelectedItem().(siteItem); ok && !m.Scanning {
			m.Chosen = &Choice{BaseURL: item.site.BaseURL()}
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		if m.Scanning {
			return m, nil
		}
		m.SiteList.SetItems([]list.Item{})
		m.Err = nil
		return m, m.startScan()

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.inputErr = ""
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus()

	case key.Matches(msg, m.Keys.Skip):
		m.Chosen = &Choice{}
		return m, nil
	}

	if !m.Scanning {
		m.SiteList, cmd = m.SiteList.Update(msg)
	}
	return m, cmd
}

// updateManualMode handles keyboard input in manual URL entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		base, err := normalizeBaseURL(m.URLInput.Value())
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.ManualMode = false
		m.URLInput.Blur()
		m.Chosen = &Choice{BaseURL: base}
		return m, nil
	}

	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// normalizeBaseURL accepts "host:port" or a full http(s) URL.
func normalizeBaseURL(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("enter a server URL")
	}
	if !strings.Contains(v, "://") {
		v = "http://" + v
	}
	u, err := url.Parse(v)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("not a valid http(s) URL: %s", v)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var body, helpText string
	switch {
	case m.ManualMode:
		body = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		body = m.renderScanning(width - 4)
		helpText = m.Help.View(m.Keys)
	default:
		body = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}

	header := lipgloss.NewStyle().Foreground(AlarmColor).Bold(true).Render("MinuteAI preview") +
		"  " + SubtitleStyle.Render(versionLabel())
	return RenderApplicationContainer(header, body, helpText, width, m.Height, false)
}

// renderScanning renders a centred progress display for the running scan.
func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	pct := min(elapsed.Seconds()/m.timeout.Seconds(), 1)

	body := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" SEARCHING FOR SITE SERVERS"),
		SubtitleStyle.Render("Browsing the local network over mDNS..."),
		"",
		m.ProgressBar.ViewAs(pct),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
	)
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, body)
}

// renderResults renders the site list, or a hint when nothing answered.
func (m DiscoveryModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("  ✗ Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString("  Press m to enter a server URL, or s to preview offline.\n")

	case len(m.SiteList.Items()) == 0:
		warn := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  " + warn.Render("⚠ No site servers found on your network"))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Start one with: minute-server serve --advertise\n")
		b.WriteString("    • Check that multicast is allowed on this network\n")
		b.WriteString("    • Press r to rescan, m to enter a URL, or s to preview offline\n")

	default:
		b.WriteString(m.SiteList.View())
	}
	return b.String()
}

// renderManualEntry renders the manual URL entry dialog
func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  Enter the site server URL"))
	b.WriteString("\n\n  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n")
	if m.inputErr != "" {
		b.WriteString("\n  " + ErrorStyle.Render(m.inputErr) + "\n")
	}
	return b.String()
}
