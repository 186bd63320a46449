package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/config"
	"github.com/minuteai/minute-site/internal/discovery"
	"github.com/minuteai/minute-site/internal/logging"
	"github.com/minuteai/minute-site/internal/ui"
	"github.com/minuteai/minute-site/internal/waitlist"
)

// Command flags
var (
	email       string
	scanTimeout time.Duration
)

// registerCmd joins the waitlist without the full-screen preview
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Join the waitlist from the command line",
	Long: `Register an email address with the waitlist.

The address goes through the same submission flow as the preview form. With
--server it is sent to a running minute-server; otherwise registration is
simulated.`,
	Example: `  # Simulated registration
  minute-preview register --email you@example.com

  # Register with a local server
  minute-preview register --email you@example.com --server http://localhost:8080`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&email, "email", "", "Email address to register")
	_ = registerCmd.MarkFlagRequired("email")
}

func runRegister(cmd *cobra.Command, args []string) error {
	defer logging.Sync()
	out := ui.NewPrinter(cmd.OutOrStdout())

	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	base := resolveServerURL(cmd, settings)

	var registrar waitlist.Registrar
	var httpRegistrar *waitlist.HTTPRegistrar
	target := "simulated"
	if base != "" {
		httpRegistrar = waitlist.NewHTTPRegistrar(base)
		httpRegistrar.MaxRetries = settings.Waitlist.MaxRetries
		registrar = httpRegistrar
		target = httpRegistrar.BaseURL
	} else {
		sim := waitlist.NewSimulatedRegistrar()
		sim.Delay = settings.Waitlist.SubmitDelay
		registrar = sim
	}

	out.PrintHeader("Join the waitlist", "minute-preview register",
		ui.Field{Key: "Email", Value: email},
		ui.Field{Key: "Server", Value: target},
	)

	ctrl := waitlist.NewController(registrar, waitlist.WithCallTimeout(settings.Waitlist.CallTimeout))
	defer ctrl.Close()

	if err := ctrl.SetEmail(email); err != nil {
		return err
	}
	if err := ctrl.Submit(cmd.Context()); err != nil {
		out.PrintError("Not submitted", err)
		return err
	}
	snap, err := ctrl.Wait(cmd.Context())
	if err != nil {
		return err
	}

	if snap.State != waitlist.Succeeded {
		logging.Warn("Registration failed", zap.String("email", logging.MaskEmail(email)), zap.Error(snap.Err))
		tips := []string{"Check the address and try again"}
		if waitlist.IsRetryable(snap.Err) {
			tips = []string{
				"Check that minute-server is running and reachable",
				"Try again in a moment",
			}
		}
		out.PrintError("Registration failed", errors.New(waitlist.GetShortErrorMessage(snap.Err)), tips...)
		return snap.Err
	}

	details := []ui.Field{{Key: "Email", Value: snap.Email}}
	if httpRegistrar != nil && httpRegistrar.Last != nil {
		last := httpRegistrar.Last
		details = append(details,
			ui.Field{Key: "Position", Value: strconv.Itoa(last.Position)},
			ui.Field{Key: "Ahead", Value: strconv.Itoa(last.Ahead)},
		)
		if last.Existing {
			details = append(details, ui.Field{Key: "Note", Value: "already on the list"})
		}
	}
	out.PrintSuccess("You're on the list", details...)
	return nil
}

// discoverCmd lists site servers on the network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find site servers on the local network",
	Long: `Browse the local network for minute-server instances started with
--advertise, and print their URLs.`,
	Example: `  # Scan for 3 seconds (default)
  minute-preview discover

  # Longer scan for busy networks
  minute-preview discover --timeout 10s`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to wait for answers")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	defer logging.Sync()
	out := ui.NewPrinter(cmd.OutOrStdout())
	out.PrintHeader("Site discovery", "minute-preview discover",
		ui.Field{Key: "Service", Value: discovery.ServiceType},
		ui.Field{Key: "Timeout", Value: scanTimeout.String()},
	)

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout
	sites, err := scanner.Scan(cmd.Context())
	if err != nil {
		out.PrintError("Scan failed", err,
			"Check that multicast is allowed on this network",
			"Pass --server to connect to a known URL instead",
		)
		return err
	}

	if len(sites) == 0 {
		out.PrintWarning("No site servers found",
			"Start one with: minute-server serve --advertise",
			"Try a longer --timeout on busy networks",
		)
		return nil
	}

	for _, site := range sites {
		details := []ui.Field{
			{Key: "URL", Value: site.BaseURL()},
			{Key: "Host", Value: site.Host},
		}
		if v := site.GetMetadata(discovery.TxtVersion); v != "" {
			details = append(details, ui.Field{Key: "Version", Value: v})
		}
		out.PrintSuccess(site.Instance, details...)
	}
	out.Println("Use 'minute-preview --server <url>' to open the preview")
	return nil
}
