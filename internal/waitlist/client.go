package waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/minuteai/minute-site/internal/logging"
)

const (
	// APIPath is the JSON registration endpoint served by the site server.
	APIPath = "/api/waitlist"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second
)

// RegisterRequest is the body of POST /api/waitlist.
type RegisterRequest struct {
	Email string `json:"email"`
}

// RegisterResponse is returned by POST /api/waitlist on success.
type RegisterResponse struct {
	ID       string    `json:"id"`
	Position int       `json:"position"`
	Ahead    int       `json:"ahead"`
	Existing bool      `json:"existing"`
	JoinedAt time.Time `json:"joined_at"`
}

// CountResponse is returned by GET /api/waitlist.
type CountResponse struct {
	Count int `json:"count"`
	Ahead int `json:"ahead"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPRegistrar registers addresses with a running site server.
type HTTPRegistrar struct {
	// BaseURL is the server root, e.g. "http://localhost:8080"
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff
	MaxRetryDelay time.Duration

	// Last holds the most recent successful response.
	Last *RegisterResponse
}

// NewHTTPRegistrar creates a registrar for the server at baseURL.
func NewHTTPRegistrar(baseURL string) *HTTPRegistrar {
	return &HTTPRegistrar{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// Register posts email to the server, retrying retryable failures with
// exponential backoff.
func (h *HTTPRegistrar) Register(ctx context.Context, email string) error {
	var lastErr error
	currentDelay := h.RetryDelay

	for attempt := 0; attempt <= h.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(currentDelay):
			case <-ctx.Done():
				return ctx.Err()
			}

			currentDelay *= 2
			if h.MaxRetryDelay > 0 && currentDelay > h.MaxRetryDelay {
				currentDelay = h.MaxRetryDelay
			}
		}

		resp, err := h.registerAttempt(ctx, email)
		if err == nil {
			h.Last = resp
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
		if !IsRetryable(err) {
			return err
		}

		logging.Debug("Waitlist registration attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return fmt.Errorf("registration failed after %d attempts: %w", h.MaxRetries+1, lastErr)
}

func (h *HTTPRegistrar) registerAttempt(ctx context.Context, email string) (*RegisterResponse, error) {
	body, err := json.Marshal(RegisterRequest{Email: email})
	if err != nil {
		return nil, NewParseError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+APIPath, bytes.NewReader(body))
	if err != nil {
		return nil, &RegistrationError{Type: ErrTypeUnknown, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := h.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ClassifyNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, ClassifyNetworkError(err)
	}

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		var out RegisterResponse
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, NewParseError("failed to decode response", err)
		}
		return &out, nil
	}

	message := errorMessage(resp, data)
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, NewRejectedError(resp.StatusCode, message)
	}
	return nil, NewHTTPError(resp.StatusCode, message)
}

func errorMessage(resp *http.Response, data []byte) string {
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var e ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return e.Error
		}
	}
	return fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
}

// Count fetches the waitlist size from the server.
func (h *HTTPRegistrar) Count(ctx context.Context) (*CountResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+APIPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := h.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ClassifyNetworkError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	var out CountResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, NewParseError("failed to decode count", err)
	}
	return &out, nil
}
