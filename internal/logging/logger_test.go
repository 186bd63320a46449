package logging

import (
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"nobody", "***"},
		{"@example.com", "***"},
		{"alice@example.com", "a***@example.com"},
		{"é@b.co", "é***@b.co"},
		{"a@b@c.io", "a***@c.io"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := MaskEmail(tt.in); got != tt.want {
				t.Errorf("MaskEmail(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a nop when no level is configured")
	}
}

func TestInitializeWithOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.log")
	if err := InitializeWithOutput("debug", []string{path}); err != nil {
		t.Fatalf("InitializeWithOutput() error = %v", err)
	}
	defer SetLogger(nil)

	if !GetLogger().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}
}

func TestLogWaitlistTransition(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogWaitlistTransition("idle", "submitting", "alice@example.com", nil)
	LogWaitlistTransition("submitting", "failed", "alice@example.com", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[1].Level != zapcore.WarnLevel {
		t.Errorf("levels = %v, %v; want info, warn", entries[0].Level, entries[1].Level)
	}
	if got := entries[0].ContextMap()["email"]; got != "a***@example.com" {
		t.Errorf("email field = %v, want masked address", got)
	}
}
