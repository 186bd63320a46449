package preview

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/logging"
	"github.com/minuteai/minute-site/internal/typewriter"
	"github.com/minuteai/minute-site/internal/waitlist"
)

// PageConfig configures a PageModel.
type PageConfig struct {
	Site      *content.Site
	Registrar waitlist.Registrar
	Timing    typewriter.Timing

	// CallTimeout bounds each registration call; zero leaves it unbounded.
	CallTimeout time.Duration

	// StreamURL is a site server's typewriter websocket. When empty, or
	// once the stream drops, the hero cycles phrases locally.
	StreamURL string

	// MarkdownStyle is a glamour standard style name.
	MarkdownStyle string
}

// PageModel is the scrolling landing page.
type PageModel struct {
	site *content.Site

	// Typewriter
	cycle     *typewriter.PhraseCycle
	gen       int
	streamURL string
	stream    *websocket.Conn
	frame     typewriter.Frame

	// Page
	viewport viewport.Model
	progress progress.Model
	md       *markdown
	tops     map[string]int
	elapsed  time.Duration
	form     formModel

	// UI state
	Width    int
	Height   int
	ready    bool
	help     help.Model
	keys     pageKeyMap
	formKeys formKeyMap
}

// NewPageModel builds the page. It fails only when the hero copy or the
// typewriter timing is unusable.
func NewPageModel(cfg PageConfig) (PageModel, error) {
	site := cfg.Site
	if site == nil {
		site = content.Default()
	}
	timing := cfg.Timing
	if timing == (typewriter.Timing{}) {
		timing = typewriter.DefaultTiming()
	}
	cycle, err := typewriter.New(site.Hero.Phrases, timing)
	if err != nil {
		return PageModel{}, err
	}

	registrar := cfg.Registrar
	if registrar == nil {
		registrar = waitlist.NewSimulatedRegistrar()
	}
	var opts []waitlist.Option
	if cfg.CallTimeout > 0 {
		opts = append(opts, waitlist.WithCallTimeout(cfg.CallTimeout))
	}

	bar := progress.New(progress.WithSolidFill(string(AlarmColor)), progress.WithoutPercentage())
	bar.Width = 20

	return PageModel{
		site:      site,
		cycle:     cycle,
		streamURL: cfg.StreamURL,
		frame:     cycle.Frame(),
		viewport:  viewport.New(0, 0),
		progress:  bar,
		md:        newMarkdown(cfg.MarkdownStyle),
		tops:      make(map[string]int),
		form:      newFormModel(site.Waitlist, registrar, opts...),
		help:      help.New(),
		keys:      newPageKeyMap(),
		formKeys:  newFormKeyMap(),
	}, nil
}

// Init starts the typewriter, the ambient animation, and the live count.
func (m PageModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		typeTick(m.gen, m.cycle.NextDelay()),
		animTick(),
		m.form.fetchCount(),
	}
	if m.streamURL != "" {
		cmds = append(cmds, dialStream(m.streamURL))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m PageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.viewport.Width = max(msg.Width-4, 0)
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.help.Width = max(msg.Width-4-m.progress.Width-2, 0)
		m.ready = true

	case tea.KeyMsg:
		if m.form.focused {
			return m.updateForm(msg)
		}
		return m.updatePage(msg)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)

	case typeTickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.cycle.Step()
		m.frame = m.cycle.Frame()
		cmd = typeTick(m.gen, m.cycle.NextDelay())

	case streamOpenMsg:
		// The server now drives the typewriter; orphan the local tick chain.
		m.gen++
		m.stream = msg.conn
		cmd = readFrame(m.stream)

	case frameMsg:
		m.frame = typewriter.Frame(msg)
		if m.stream != nil {
			cmd = readFrame(m.stream)
		}

	case streamClosedMsg:
		if m.stream != nil {
			logging.Warn("Typewriter stream closed, cycling locally", zap.Error(msg.err))
			_ = m.stream.Close()
			m.stream = nil
			m.gen++
			cmd = typeTick(m.gen, m.cycle.NextDelay())
		}

	case animTickMsg:
		m.elapsed += animInterval
		cmd = animTick()

	case submitDoneMsg, countMsg:
		m.form, cmd = m.form.update(msg)
		if s, ok := msg.(submitDoneMsg); ok {
			logging.Info("Waitlist submission finished",
				zap.Stringer("state", s.snap.State),
				zap.Int("attempts", s.snap.Attempts))
		}

	default:
		m.form, cmd = m.form.update(msg)
	}

	m.keys.Retry.SetEnabled(m.form.snap.State == waitlist.Failed)
	m.refresh()
	return m, cmd
}

// updatePage handles keys while browsing.
func (m PageModel) updatePage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Join):
		m.viewport.SetYOffset(m.tops["waitlist"])
		m.form, cmd = m.form.focus()

	case key.Matches(msg, m.keys.Retry):
		m.form, cmd = m.form.retry()

	case key.Matches(msg, m.keys.Section):
		i := int(msg.Runes[0] - '1')
		if i < len(m.site.Nav.Links) {
			m.viewport.SetYOffset(m.tops[m.site.Nav.Links[i].Anchor])
		}

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()

	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}

	m.keys.Retry.SetEnabled(m.form.snap.State == waitlist.Failed)
	m.refresh()
	return m, cmd
}

// updateForm handles keys while the email input has focus.
func (m PageModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.formKeys.Submit):
		m.form, cmd = m.form.submit()

	case key.Matches(msg, m.formKeys.Leave):
		m.form = m.form.blur()

	default:
		m.form, cmd = m.form.edit(msg)
	}

	m.keys.Retry.SetEnabled(m.form.snap.State == waitlist.Failed)
	m.refresh()
	return m, cmd
}

func (m PageModel) pageWidth() int {
	return max(min(m.viewport.Width, MaxContentWidth), 2*maxShift+20)
}

func (m PageModel) blockWidth() int {
	return m.pageWidth() - 2*maxShift
}

// scrolled reports whether the nav should take its solid fill.
func (m PageModel) scrolled() bool {
	return m.viewport.YOffset*pxPerRow > m.site.Nav.ScrolledAfter
}

// refresh re-renders every section for the current scroll offset and
// animation time. Section heights do not depend on either, so each top is
// known before its section renders.
func (m *PageModel) refresh() {
	if !m.ready {
		return
	}

	var parts []string
	row := 0
	for _, s := range m.sections() {
		out := s.render(m, row-m.viewport.YOffset)
		if s.anchor != "" {
			m.tops[s.anchor] = row
		}
		row += lipgloss.Height(out)
		parts = append(parts, out)
	}
	page := strings.Join(parts, "\n")

	if margin := (m.viewport.Width - m.pageWidth()) / 2; margin > 0 {
		pad := strings.Repeat(" ", margin)
		lines := strings.Split(page, "\n")
		for i, l := range lines {
			lines[i] = pad + l
		}
		page = strings.Join(lines, "\n")
	}

	offset := m.viewport.YOffset
	m.viewport.SetContent(page)
	m.viewport.SetYOffset(offset)
}

// View renders the page inside the application container.
func (m PageModel) View() string {
	if !m.ready {
		return "\n  Loading…"
	}

	links := make([]string, len(m.site.Nav.Links))
	for i, l := range m.site.Nav.Links {
		links[i] = l.Label
	}
	header := BuildHeaderContent(m.site.Brand, links, m.site.Nav.CTA.Label, m.scrolled())

	var helpText string
	if m.form.focused {
		helpText = m.help.View(m.formKeys)
	} else {
		helpText = m.help.View(m.keys)
	}
	footer := BuildFooterContent(m.progress.ViewAs(m.viewport.ScrollPercent()), helpText)

	return RenderApplicationContainer(header, m.viewport.View(), footer, m.Width, m.Height, m.scrolled())
}

// Close cancels any in-flight registration and drops the stream.
func (m PageModel) Close() {
	m.form.close()
	if m.stream != nil {
		_ = m.stream.Close()
	}
}

// Frame returns the typewriter frame currently shown in the hero.
func (m PageModel) Frame() typewriter.Frame {
	return m.frame
}

// FormSnapshot returns the waitlist controller state behind the form.
func (m PageModel) FormSnapshot() waitlist.Snapshot {
	return m.form.ctrl.Snapshot()
}
