// Minute-server serves the MinuteAI landing page.
//
// It renders the page, accepts waitlist signups over a form post and a JSON
// API, streams the hero typewriter over a WebSocket, and can announce itself
// on the local network over mDNS so minute-preview finds it.
//
// Usage:
//
//	minute-server serve [flags]
//
// See 'minute-server serve --help' for available options.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/minuteai/minute-site/internal/config"
	"github.com/minuteai/minute-site/internal/server"
	"github.com/minuteai/minute-site/internal/ui"
	"github.com/minuteai/minute-site/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minute-server",
	Short: "MinuteAI landing page server",
	Long: `A standalone server for the MinuteAI landing page.

Serves the page, the waitlist API, and the typewriter stream. Settings are
read from the user config file and can be overridden with flags.

For a terminal rendition of the page, use the separate 'minute-preview' utility.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command and flags
var (
	host        string
	port        int
	certPath    string
	keyPath     string
	contentPath string
	advertise   bool
	logLevel    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the site server",
	Long: `Start the MinuteAI site server.

TLS is enabled when both --cert and --key are given. With --content the site
copy is read from a YAML file and reloaded whenever the file changes; the
typewriter restarts with the new phrases.

With --advertise the server publishes itself over mDNS so that
'minute-preview --discover' can find it.`,
	Example: `  # Serve on the configured address (default 0.0.0.0:8080)
  minute-server serve

  # Serve on a custom port with debug logging
  minute-server serve --port 9000 --log-level debug

  # Serve over TLS
  minute-server serve --cert fullchain.pem --key privkey.pem --port 8443

  # Edit the copy live and announce the server on the LAN
  minute-server serve --content ./site.yaml --advertise`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (default from config, 0.0.0.0)")
	serveCmd.Flags().IntVar(&port, "port", 0, "Listen port (default from config, 8080)")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (enables TLS with --key)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
	serveCmd.Flags().StringVar(&contentPath, "content", "", "Site copy YAML file, reloaded on change")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the server over mDNS")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	s := settings.Server

	flags := cmd.Flags()
	if flags.Changed("host") {
		s.Host = host
	}
	if flags.Changed("port") {
		s.Port = port
	}
	if flags.Changed("cert") {
		s.CertPath = certPath
	}
	if flags.Changed("key") {
		s.KeyPath = keyPath
	}
	if flags.Changed("content") {
		s.ContentPath = contentPath
	}
	if flags.Changed("advertise") {
		s.Advertise = advertise
	}
	level := settings.Log.Level
	if flags.Changed("log-level") {
		level = logLevel
	}
	if level == "" {
		level = "info"
	}

	// Validate: Either both cert and key are provided, or neither
	if (s.CertPath == "") != (s.KeyPath == "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither")
	}
	if s.TLSEnabled() {
		if _, err := os.Stat(s.CertPath); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", s.CertPath)
		}
		if _, err := os.Stat(s.KeyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", s.KeyPath)
		}
	}

	srv, err := server.New(&server.Config{
		Host:          s.Host,
		Port:          s.Port,
		CertPath:      s.CertPath,
		KeyPath:       s.KeyPath,
		LogLevel:      level,
		ContentPath:   s.ContentPath,
		Advertise:     s.Advertise,
		Instance:      s.Instance,
		Timing:        settings.Typewriter,
		SubmitTimeout: settings.Waitlist.CallTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	scheme := "http"
	if s.TLSEnabled() {
		scheme = "https"
	}
	params := []ui.Field{
		{Key: "Address", Value: fmt.Sprintf("%s://%s", scheme, s.Addr())},
		{Key: "Advertise", Value: strconv.FormatBool(s.Advertise)},
		{Key: "Log level", Value: level},
	}
	if s.ContentPath != "" {
		params = append(params, ui.Field{Key: "Content", Value: s.ContentPath})
	}
	ui.NewPrinter(cmd.OutOrStdout()).PrintHeader("MinuteAI site server", "minute-server serve", params...)

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("minute-server %s\n", version.Full())
	},
}
