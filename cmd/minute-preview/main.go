// Minute-preview renders the MinuteAI landing page in the terminal.
//
// It shows the page copy, the hero typewriter, the scroll-linked reveals,
// and a working waitlist form. Against a running minute-server the form
// registers through the server's API and the typewriter follows the
// server's stream; offline, registration is simulated.
//
// Usage:
//
//	minute-preview [command] [flags]
//
// Running without arguments launches the preview.
// See 'minute-preview --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minuteai/minute-site/internal/config"
	"github.com/minuteai/minute-site/internal/content"
	"github.com/minuteai/minute-site/internal/logging"
	"github.com/minuteai/minute-site/internal/preview"
	"github.com/minuteai/minute-site/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	serverURL   string
	contentPath string
	logFile     string
	logLevel    string
)

// Preview flags
var (
	discover      bool
	markdownStyle string
)

var rootCmd = &cobra.Command{
	Use:   "minute-preview",
	Short: "MinuteAI landing page preview",
	Long: `A terminal preview of the MinuteAI landing page.

Scroll through the page, watch the typewriter, and join the waitlist from
the terminal. Use --server to register against a running minute-server,
or --discover to find one on the local network.

If no command is specified, the preview launches automatically.`,
	Version: version.Version,
	Example: `  # Offline preview with simulated registration
  minute-preview

  # Preview against a local server
  minute-preview --server http://localhost:8080

  # Find a server on the LAN first, logging to a file
  minute-preview --discover --log-file preview.log`,
	PersistentPreRunE: setupLogging,
	RunE:              runPreview,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Site server base URL (default from config; empty runs offline)")
	rootCmd.PersistentFlags().StringVar(&contentPath, "content", "", "Site copy YAML file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file (default: no logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.Flags().BoolVar(&discover, "discover", false, "Look for a site server on the local network first")
	rootCmd.Flags().StringVar(&markdownStyle, "markdown-style", preview.DefaultMarkdownStyle, "Glamour style for card copy (dark, light, notty)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging sends logs to --log-file. Without one the logger stays
// silent; the preview owns the terminal.
func setupLogging(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	path := settings.Preview.LogFile
	if cmd.Flags().Changed("log-file") {
		path = logFile
	}
	if path == "" {
		return nil
	}

	level := settings.Log.Level
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if level == "" {
		level = "info"
	}
	if err := logging.InitializeWithOutput(level, []string{path}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

// resolveServerURL returns --server, falling back to the settings file.
func resolveServerURL(cmd *cobra.Command, settings *config.Settings) string {
	if cmd.Flags().Changed("server") {
		return serverURL
	}
	return settings.Waitlist.ServerURL
}

func loadSite() (*content.Site, error) {
	if contentPath == "" {
		return content.Default(), nil
	}
	site, err := content.Load(contentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return site, nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	defer logging.Sync()

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	site, err := loadSite()
	if err != nil {
		return err
	}

	return preview.Run(cmd.Context(), preview.Options{
		Site:            site,
		Timing:          settings.Typewriter,
		ServerURL:       resolveServerURL(cmd, settings),
		Discover:        discover,
		DiscoverTimeout: settings.Preview.DiscoverTimeout,
		SubmitDelay:     settings.Waitlist.SubmitDelay,
		MaxRetries:      settings.Waitlist.MaxRetries,
		CallTimeout:     settings.Waitlist.CallTimeout,
		MarkdownStyle:   markdownStyle,
	})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("minute-preview %s\n", version.Full())
	},
}
