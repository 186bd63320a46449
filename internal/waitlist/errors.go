package waitlist

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// Controller rejections. None of these change the controller's state.
var (
	ErrInvalidEmail        = errors.New("please enter a valid email address")
	ErrDuplicateSubmission = errors.New("submission already in progress")
	ErrAlreadyRegistered   = errors.New("you're already on the list")
	ErrEmailLocked         = errors.New("email cannot be changed right now")
	ErrNotFailed           = errors.New("nothing to retry")
	ErrClosed              = errors.New("waitlist controller closed")
)

// ErrorType represents the category of a registration failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request timed out
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates an unexpected HTTP status
	ErrTypeHTTP
	// ErrTypeRejected indicates the server rejected the address
	ErrTypeRejected
	// ErrTypeParse indicates a malformed response
	ErrTypeParse
	// ErrTypeUnknown indicates an unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// RegistrationError is a failed call to a Registrar.
type RegistrationError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Err        error
	Retryable  bool
}

// Error implements the error interface
func (e *RegistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a transport error to a RegistrationError.
func ClassifyNetworkError(err error) *RegistrationError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &RegistrationError{Type: ErrTypeTimeout, Message: "request timed out", Err: err, Retryable: true}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &RegistrationError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &RegistrationError{Type: ErrTypeConnectionRefused, Message: "server refused connection", Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &RegistrationError{Type: ErrTypeNetwork, Message: "network error occurred", Err: err, Retryable: true}
}

// NewHTTPError creates an error for an unexpected status code
func NewHTTPError(statusCode int, message string) *RegistrationError {
	return &RegistrationError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500 || statusCode == 429,
	}
}

// NewRejectedError creates an error for an address the server refused
func NewRejectedError(statusCode int, message string) *RegistrationError {
	return &RegistrationError{
		Type:       ErrTypeRejected,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates an error for a response that could not be decoded
func NewParseError(message string, err error) *RegistrationError {
	return &RegistrationError{Type: ErrTypeParse, Message: message, Err: err}
}

// IsRetryable reports whether err is a RegistrationError worth retrying.
func IsRetryable(err error) bool {
	var regErr *RegistrationError
	if errors.As(err, &regErr) {
		return regErr.Retryable
	}
	return false
}

// IsRejection reports whether err is a controller rejection rather than a
// failed registration call.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrDuplicateSubmission) ||
		errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrEmailLocked) ||
		errors.Is(err, ErrNotFailed)
}

// GetShortErrorMessage returns a concise message suitable for the form.
func GetShortErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsRejection(err) {
		return err.Error()
	}

	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return "Request timed out. Please try again."
		}
		return "Something went wrong. Please try again."
	}

	switch regErr.Type {
	case ErrTypeTimeout:
		return "Request timed out. Please try again."
	case ErrTypeConnectionRefused, ErrTypeDNS, ErrTypeNetwork:
		return "Can't reach the waitlist right now. Check your connection."
	case ErrTypeRejected:
		return regErr.Message
	case ErrTypeHTTP:
		return fmt.Sprintf("The waitlist is having trouble (HTTP %d). Please try again.", regErr.StatusCode)
	case ErrTypeParse:
		return "Unexpected response from the waitlist."
	default:
		return regErr.Message
	}
}
