package preview

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/discovery"
	"github.com/minuteai/minute-site/internal/logging"
	"github.com/minuteai/minute-site/internal/typewriter"
	"github.com/minuteai/minute-site/internal/waitlist"
	"github.com/minuteai/minute-site/internal/web"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenPage      Screen = "page"
)

// Options configures the preview application.
type Options struct {
	Site   *content.Site
	Timing typewriter.Timing

	// ServerURL registers against, and streams the typewriter from, a
	// running site server. Empty runs offline with a simulated registrar
	// unless Discover is set.
	ServerURL string

	// Discover opens the discovery screen before the page.
	Discover        bool
	DiscoverTimeout time.Duration
	Scan            ScanFunc

	SubmitDelay   time.Duration // simulated registrar confirmation delay
	MaxRetries    int           // HTTP registrar retry budget
	CallTimeout   time.Duration
	MarkdownStyle string
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	opts Options

	CurrentScreen Screen
	Discovery     DiscoveryModel
	Page          PageModel
	LastError     error

	Width  int
	Height int
}

// NewAppModel creates the application, starting at discovery when
// opts.Discover is set and no server URL was given.
func NewAppModel(opts Options) (AppModel, error) {
	m := AppModel{opts: opts}

	if opts.Discover && opts.ServerURL == "" {
		scan := opts.Scan
		if scan == nil {
			scanner := discovery.NewScanner()
			if opts.DiscoverTimeout > 0 {
				scanner.Timeout = opts.DiscoverTimeout
			}
			scan = scanner.Scan
		}
		m.CurrentScreen = ScreenDiscovery
		m.Discovery = NewDiscoveryModel(scan, opts.DiscoverTimeout)
		return m, nil
	}

	page, err := NewPageModel(opts.pageConfig(opts.ServerURL))
	if err != nil {
		return AppModel{}, err
	}
	m.CurrentScreen = ScreenPage
	m.Page = page
	return m, nil
}

// pageConfig selects the registrar and stream for a server base URL.
func (o Options) pageConfig(baseURL string) PageConfig {
	cfg := PageConfig{
		Site:          o.Site,
		Timing:        o.Timing,
		CallTimeout:   o.CallTimeout,
		MarkdownStyle: o.MarkdownStyle,
	}

	if baseURL == "" {
		sim := waitlist.NewSimulatedRegistrar()
		if o.SubmitDelay > 0 {
			sim.Delay = o.SubmitDelay
		}
		cfg.Registrar = sim
		return cfg
	}

	reg := waitlist.NewHTTPRegistrar(baseURL)
	if o.MaxRetries > 0 {
		reg.MaxRetries = o.MaxRetries
	}
	cfg.Registrar = reg
	cfg.StreamURL = StreamURL(baseURL)
	return cfg
}

// StreamURL returns the typewriter websocket URL of a site server.
func StreamURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + web.TypewriterPath
}

// Init initializes the current screen
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.Discovery.Init()
	case ScreenPage:
		return m.Page.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the active screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	case tea.KeyMsg:
		// Global quit handler
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	switch m.CurrentScreen {
	case ScreenDiscovery:
		updated, cmd := m.Discovery.Update(msg)
		m.Discovery = updated.(DiscoveryModel)
		if m.Discovery.Chosen != nil {
			return m.openPage(m.Discovery.Chosen.BaseURL)
		}
		return m, cmd

	case ScreenPage:
		updated, cmd := m.Page.Update(msg)
		m.Page = updated.(PageModel)
		return m, cmd
	}
	return m, nil
}

// openPage transitions from discovery to the page.
func (m AppModel) openPage(baseURL string) (tea.Model, tea.Cmd) {
	page, err := NewPageModel(m.opts.pageConfig(baseURL))
	if err != nil {
		m.LastError = err
		return m, tea.Quit
	}
	if baseURL == "" {
		logging.Info("Previewing offline")
	} else {
		logging.Info("Previewing against site server", zap.String("url", baseURL))
	}

	m.CurrentScreen = ScreenPage
	updated, sizeCmd := page.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
	m.Page = updated.(PageModel)
	return m, tea.Batch(sizeCmd, m.Page.Init())
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenDiscovery:
		return m.Discovery.View()
	case ScreenPage:
		return m.Page.View()
	default:
		return "Unknown screen"
	}
}

// Close releases the page's controller and stream.
func (m AppModel) Close() {
	if m.CurrentScreen == ScreenPage {
		m.Page.Close()
	}
}

// Run starts the full-screen preview and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	app, err := NewAppModel(opts)
	if err != nil {
		return err
	}

	program := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	final, err := program.Run()
	if m, ok := final.(AppModel); ok {
		m.Close()
		if m.LastError != nil && err == nil {
			err = m.LastError
		}
	}
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	return nil
}
