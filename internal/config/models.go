package config

import (
	"fmt"
	"time"

	"github.com/minuteai/minute-site/internal/typewriter"
	"github.com/minuteai/minute-site/internal/waitlist"
)

// CurrentVersion is the settings file format version.
const CurrentVersion = 1

// Settings represents the entire user configuration file.
type Settings struct {
	Version    int               `yaml:"version"`
	Server     ServerSettings    `yaml:"server"`
	Typewriter typewriter.Timing `yaml:"typewriter"`
	Waitlist   WaitlistSettings  `yaml:"waitlist"`
	Preview    PreviewSettings   `yaml:"preview"`
	Log        LogSettings       `yaml:"log"`
}

// ServerSettings configures minute-server.
type ServerSettings struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	CertPath    string `yaml:"cert,omitempty"`     // TLS certificate (PEM); empty serves plain HTTP
	KeyPath     string `yaml:"key,omitempty"`      // TLS private key (PEM)
	ContentPath string `yaml:"content,omitempty"`  // site copy override, hot-reloaded
	Advertise   bool   `yaml:"advertise"`          // announce over mDNS
	Instance    string `yaml:"instance,omitempty"` // mDNS instance name
}

// WaitlistSettings configures how the preview registers addresses.
type WaitlistSettings struct {
	// ServerURL selects HTTP registration against a running site server.
	// Empty uses the simulated registrar.
	ServerURL   string        `yaml:"server_url,omitempty"`
	SubmitDelay time.Duration `yaml:"submit_delay"`
	MaxRetries  int           `yaml:"max_retries"`
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// PreviewSettings configures the terminal preview.
type PreviewSettings struct {
	LogFile         string        `yaml:"log_file,omitempty"`
	DiscoverTimeout time.Duration `yaml:"discover_timeout"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level string `yaml:"level,omitempty"`
}

// Default returns settings with every field at its default.
func Default() *Settings {
	return &Settings{
		Version: CurrentVersion,
		Server: ServerSettings{
			Host:     "0.0.0.0",
			Port:     8080,
			Instance: "MinuteAI",
		},
		Typewriter: typewriter.DefaultTiming(),
		Waitlist: WaitlistSettings{
			SubmitDelay: waitlist.DefaultSimulatedDelay,
			MaxRetries:  waitlist.DefaultMaxRetries,
			CallTimeout: 30 * time.Second,
		},
		Preview: PreviewSettings{
			DiscoverTimeout: 3 * time.Second,
		},
	}
}

// Addr returns the server listen address.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TLSEnabled reports whether both a certificate and key are configured.
func (s ServerSettings) TLSEnabled() bool {
	return s.CertPath != "" && s.KeyPath != ""
}

// Validate checks settings for values the binaries cannot use.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", s.Server.Port)
	}
	if (s.Server.CertPath == "") != (s.Server.KeyPath == "") {
		return fmt.Errorf("server cert and key must be set together")
	}
	if err := s.Typewriter.Validate(); err != nil {
		return err
	}
	if s.Waitlist.SubmitDelay < 0 || s.Waitlist.MaxRetries < 0 {
		return fmt.Errorf("waitlist submit_delay and max_retries must not be negative")
	}
	return nil
}
