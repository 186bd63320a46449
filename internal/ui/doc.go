// Package ui provides styled terminal output for the one-shot commands of
// minute-server and minute-preview.
//
// Components follow a "render once" pattern: they return strings styled with
// Lipgloss and never read input. The interactive preview lives in package
// preview and shares this package's palette.
//
//   - Header: command banner showing the operation and its parameters
//   - Result: success, failure, and warning boxes with details and
//     troubleshooting tips
//   - Printer: writes components to an io.Writer at the terminal width
//
// Example:
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintHeader("Waitlist Registration", "minute-preview register",
//	    ui.Field{Key: "Server", Value: serverURL})
//	if err != nil {
//	    p.PrintError("Registration failed", err, "Check the server is running")
//	    return err
//	}
//	p.PrintSuccess("You're on the list!", ui.Field{Key: "Position", Value: "1,248"})
//
// Logging stays silent unless MINUTE_LOG_LEVEL is set, so the curated output
// is not interleaved with zap lines.
package ui
