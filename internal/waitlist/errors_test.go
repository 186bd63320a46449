package waitlist

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantRetryable bool
	}{
		{"timeout", timeoutErr{}, ErrTypeTimeout, true},
		{"dns", &net.DNSError{Name: "nowhere.invalid", Err: "no such host"}, ErrTypeDNS, false},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ErrTypeConnectionRefused, true},
		{"generic", errors.New("reset"), ErrTypeNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNetworkError(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.wantRetryable)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}

	if ClassifyNetworkError(nil) != nil {
		t.Error("ClassifyNetworkError(nil) should be nil")
	}
}

func TestNewHTTPErrorRetryable(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}
	for _, tt := range tests {
		if got := NewHTTPError(tt.code, "x").Retryable; got != tt.want {
			t.Errorf("NewHTTPError(%d).Retryable = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestGetShortErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid", ErrInvalidEmail, "please enter a valid email address"},
		{"duplicate", ErrDuplicateSubmission, "submission already in progress"},
		{"wrapped rejection", fmt.Errorf("form: %w", ErrAlreadyRegistered), "form: you're already on the list"},
		{"timeout", &RegistrationError{Type: ErrTypeTimeout}, "Request timed out. Please try again."},
		{"deadline", context.DeadlineExceeded, "Request timed out. Please try again."},
		{"refused", &RegistrationError{Type: ErrTypeConnectionRefused}, "Can't reach the waitlist right now. Check your connection."},
		{"http", NewHTTPError(502, "bad gateway"), "The waitlist is having trouble (HTTP 502). Please try again."},
		{"rejected", NewRejectedError(400, "domain not allowed"), "domain not allowed"},
		{"other", errors.New("boom"), "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetShortErrorMessage(tt.err); got != tt.want {
				t.Errorf("GetShortErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistrationErrorMessage(t *testing.T) {
	err := &RegistrationError{Type: ErrTypeHTTP, Message: "unexpected status code: 500"}
	if got := err.Error(); got != "HTTP Error: unexpected status code: 500" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("eof")
	wrapped := NewParseError("failed to decode response", cause)
	if got := wrapped.Error(); got != "Parse Error: failed to decode response (caused by: eof)" {
		t.Errorf("Error() = %q", got)
	}
}
