// Package logging provides structured logging for the MinuteAI site server
// and the terminal preview.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used throughout the repository: request logs, websocket lifecycle,
// waitlist state transitions, and content reloads.
//
// # Log Levels
//
//   - Debug: websocket frames, TLS handshakes, typewriter stream details
//   - Info: requests, connections, waitlist transitions, content reloads
//   - Warn: failed registrations, reload errors, 5xx responses
//   - Error: startup failures and other fatal conditions
//
// # Initialization
//
// Logging is silent until configured. The level comes from the --log-level
// flag, then from MINUTE_LOG_LEVEL:
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The preview TUI must not write to the terminal it draws on, so it logs to
// a file instead:
//
//	logging.InitializeWithOutput("debug", []string{"/tmp/minute-preview.log"})
//
// # Specialized Logging
//
//	logging.LogHTTPRequest(requestID, remoteAddr, "POST", "/api/waitlist", 201, 64, elapsed)
//	logging.LogConnection(remoteAddr, "typewriter_stream_opened")
//	logging.LogWaitlistTransition("submitting", "succeeded", email, nil)
//	logging.LogContentReload(path, err)
//
// Email addresses are always passed through MaskEmail before being logged.
package logging
