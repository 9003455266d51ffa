package analysis

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError represents a failed API call, tagged with whether the caller may
// retry it.
type APIError struct {
	StatusCode int
	Message    string
	Retryable  bool
	Cause      error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Cause != nil:
		return fmt.Sprintf("API call failed (status %d): %s: %v", e.StatusCode, e.Message, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("API call failed (status %d): %s", e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	default:
		return fmt.Sprintf("API call failed: %s", e.Message)
	}
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// ParseError represents a malformed or unexpectedly shaped API response.
// Parse failures are always terminal.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is an APIError the caller may retry
// (rate limiting, server errors, timeouts).
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	return false
}

// retryableStatus classifies HTTP status codes: 429 and 5xx are retryable,
// other non-2xx codes are not.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// classifyTransportError wraps a transport-level failure. Only timeouts are
// retryable; everything else (DNS failures, refused connections) fails
// immediately.
func classifyTransportError(err error) *APIError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Message: "request timed out", Retryable: true, Cause: err}
	}
	return &APIError{Message: "request failed", Cause: err}
}

// truncate shortens s for inclusion in error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
