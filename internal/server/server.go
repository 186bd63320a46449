package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/discovery"
	"github.com/minuteai/minute-site/internal/logging"
	"github.com/minuteai/minute-site/internal/roster"
	"github.com/minuteai/minute-site/internal/typewriter"
	"github.com/minuteai/minute-site/internal/version"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second

	// DefaultSubmitTimeout bounds one registration call.
	DefaultSubmitTimeout = 10 * time.Second
)

// Config holds the server configuration
type Config struct {
	Host        string
	Port        int
	CertPath    string // TLS is enabled when both CertPath and KeyPath are set
	KeyPath     string
	LogLevel    string // empty keeps the current logger
	ContentPath string // optional copy override, watched for changes
	Advertise   bool   // publish the site over mDNS
	Instance    string // mDNS instance name

	Timing        typewriter.Timing
	SubmitTimeout time.Duration

	// Clock drives the typewriter; nil means the wall clock.
	Clock clockwork.Clock
}

// Server serves the landing page, the waitlist API, and the typewriter stream.
type Server struct {
	config    *Config
	tlsConfig *tls.Config
	content   *content.Store
	roster    *roster.Roster
	hub       *hub
	handler   http.Handler
	started   time.Time

	mu         sync.Mutex
	phrases    []string
	httpServer *http.Server
	addr       string
	ready      chan struct{}
	cancelRun  context.CancelFunc
	shutdown   bool
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.LogLevel != "" {
		if err := logging.Initialize(config.LogLevel); err != nil {
			return nil, fmt.Errorf("failed to initialize logging: %w", err)
		}
	}
	if config.Timing == (typewriter.Timing{}) {
		config.Timing = typewriter.DefaultTiming()
	}
	if err := config.Timing.Validate(); err != nil {
		return nil, err
	}
	if config.SubmitTimeout == 0 {
		config.SubmitTimeout = DefaultSubmitTimeout
	}
	if config.Instance == "" {
		config.Instance = "MinuteAI"
	}

	site := content.Default()
	if config.ContentPath != "" {
		loaded, err := content.Load(config.ContentPath)
		if err != nil {
			return nil, err
		}
		site = loaded
	}

	var tlsConfig *tls.Config
	if config.CertPath != "" || config.KeyPath != "" {
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	s := &Server{
		config:    config,
		tlsConfig: tlsConfig,
		content:   content.NewStore(site),
		roster:    roster.New(site.Waitlist.SocialProofBase),
		hub:       newHub(),
		started:   time.Now(),
		ready:     make(chan struct{}),
		phrases:   site.Hero.Phrases,
	}
	if _, err := typewriter.New(site.Hero.Phrases, config.Timing); err != nil {
		return nil, err
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the server's HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Roster returns the server's waitlist.
func (s *Server) Roster() *roster.Roster {
	return s.roster
}

// Start runs the server until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := s.Run(ctx)
	if ctx.Err() != nil {
		logging.Info("Shutdown signal received, server stopped")
	}
	return err
}

// Run serves until ctx is done or Shutdown is called. Alongside the HTTP
// listener it runs the mDNS advertiser and the content watcher when
// configured.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          zap.NewStdLog(logging.GetLogger()),
	}

	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		_ = listener.Close()
		return nil
	}
	s.httpServer = httpServer
	s.addr = listener.Addr().String()
	s.cancelRun = cancel
	s.mu.Unlock()
	close(s.ready)

	fields := []zap.Field{
		zap.String("addr", s.addr),
		zap.Bool("tls", s.tlsConfig != nil),
		zap.String("version", version.Full()),
	}
	if s.tlsConfig != nil {
		fields = append(fields, zap.Any("tls_info", GetTLSInfo(s.tlsConfig)))
	}
	logging.Info("Starting MinuteAI site server", fields...)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if s.config.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		txt := discovery.SiteText("/", version.Version, s.tlsConfig != nil)
		advertiser := discovery.NewAdvertiser(s.config.Instance, port, txt)
		g.Go(func() error {
			if err := advertiser.Run(gctx); err != nil {
				// The site still works without mDNS.
				logging.Warn("mDNS advertisement failed", zap.Error(err))
			}
			return nil
		})
	}

	if s.config.ContentPath != "" {
		watcher := content.NewWatcher(s.config.ContentPath, s.content)
		watcher.OnReload(s.onContentReload)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	return g.Wait()
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listener address, or "" before Run binds it.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Shutdown stops every typewriter stream and gracefully
// stops the HTTP server. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	first := !s.shutdown
	s.shutdown = true
	httpServer := s.httpServer
	cancelRun := s.cancelRun
	s.mu.Unlock()

	if first {
		logging.Info("Shutting down server...")
	}
	if cancelRun != nil {
		cancelRun()
	}
	s.hub.close()

	var err error
	if httpServer != nil {
		if err = httpServer.Shutdown(ctx); err != nil {
			logging.Warn("Shutdown timeout, forcing close", zap.Error(err))
			_ = httpServer.Close()
		}
	}

	if first {
		logging.Sync()
	}
	return err
}

// runTypewriter starts st cycling the current phrases.
func (s *Server) runTypewriter(st *stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return st.run(s.phrases, s.config.Timing, s.config.Clock)
}

// onContentReload restarts every open stream on the new phrases.
func (s *Server) onContentReload(site *content.Site, err error) {
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := typewriter.New(site.Hero.Phrases, s.config.Timing); err != nil {
		logging.Error("Failed to restart typewriter", zap.Error(err))
		return
	}
	s.phrases = site.Hero.Phrases
	for _, st := range s.hub.snapshot() {
		if err := st.run(s.phrases, s.config.Timing, s.config.Clock); err != nil {
			logging.Error("Failed to restart typewriter", zap.Error(err))
		}
	}
}
