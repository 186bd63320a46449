package logging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger atomic.Pointer[zap.Logger]

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "MINUTE_LOG_LEVEL"

// Initialize creates a new logger with the specified level writing to stdout.
// If level is empty, it checks MINUTE_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	return InitializeWithOutput(level, nil)
}

// InitializeWithOutput is Initialize with explicit zap output paths. The
// preview TUI owns the terminal, so it passes a log file here.
func InitializeWithOutput(level string, outputPaths []string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger.Store(zap.NewNop())
		return nil
	}

	if len(outputPaths) == 0 {
		outputPaths = []string{"stdout"}
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if outputPaths[0] == "stdout" || outputPaths[0] == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Store(l)

	return nil
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// InitializeFromEnv initializes the logger from the MINUTE_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	// Fallback to silent logger if not initialized
	nop := zap.NewNop()
	logger.CompareAndSwap(nil, nop)
	return logger.Load()
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogConnection logs a connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogTLSHandshake logs TLS handshake details
func LogTLSHandshake(remoteAddr string, version uint16, serverName string) {
	Debug("TLS handshake completed",
		zap.String("remote_addr", remoteAddr),
		zap.String("tls_version", tlsVersionName(version)),
		zap.String("server_name", serverName),
	)
}

// LogHTTPRequest logs a completed HTTP request
func LogHTTPRequest(requestID, remoteAddr, method, path string, status, size int, duration time.Duration) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Int("size", size),
		zap.Duration("duration", duration),
	}
	if status >= 500 {
		Warn("HTTP request", fields...)
		return
	}
	Info("HTTP request", fields...)
}

// LogWebSocketMessage logs a WebSocket message at debug level
func LogWebSocketMessage(remoteAddr string, direction string, messageType int, data []byte) {
	fields := []zap.Field{
		zap.String("remote_addr", remoteAddr),
		zap.String("direction", direction),
		zap.String("message_type", wsMessageTypeName(messageType)),
		zap.Int("length", len(data)),
	}
	if messageType == 1 {
		fields = append(fields, zap.ByteString("content", data))
	}
	Debug("WebSocket message", fields...)
}

// LogWaitlistTransition logs a submission state change. The address is masked.
func LogWaitlistTransition(from, to, email string, err error) {
	fields := []zap.Field{
		zap.String("from", from),
		zap.String("to", to),
		zap.String("email", MaskEmail(email)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
		Warn("Waitlist transition", fields...)
		return
	}
	Info("Waitlist transition", fields...)
}

// LogContentReload logs a site content reload attempt
func LogContentReload(path string, err error) {
	if err != nil {
		Warn("Content reload failed, keeping previous content",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	Info("Content reloaded", zap.String("path", path))
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}
	local := []rune(email[:at])
	return string(local[0]) + "***" + email[at:]
}

// Helper functions

func tlsVersionName(version uint16) string {
	switch version {
	case 0x0301:
		return "TLS 1.0"
	case 0x0302:
		return "TLS 1.1"
	case 0x0303:
		return "TLS 1.2"
	case 0x0304:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("Unknown (0x%04x)", version)
	}
}

func wsMessageTypeName(msgType int) string {
	switch msgType {
	case 1:
		return "text"
	case 2:
		return "binary"
	case 8:
		return "close"
	case 9:
		return "ping"
	case 10:
		return "pong"
	default:
		return fmt.Sprintf("unknown(%d)", msgType)
	}
}

// Sync flushes any buffered log entries
func Sync() {
	if l := logger.Load(); l != nil {
		_ = l.Sync()
	}
}
