package fetcher

import (
	"errors"
	"fmt"
)

// ErrTimeout indicates the fetch exceeded its bounded time.
var ErrTimeout = errors.New("fetch timed out")

// NetworkError represents a connection-level failure: DNS, TCP or TLS.
type NetworkError struct {
	URL     string
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for URL '%s': %s: %v", e.URL, e.Message, e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError.
func NewNetworkError(url, message string, err error) error {
	return &NetworkError{URL: url, Message: message, Err: err}
}

// HTTPError represents a non-2xx response.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error for URL '%s': status %d", e.URL, e.StatusCode)
}

// NewHTTPError creates a new HTTPError.
func NewHTTPError(statusCode int, url string) error {
	return &HTTPError{StatusCode: statusCode, URL: url}
}

// ContentTooLargeError indicates the response body exceeded the configured
// size cap.
type ContentTooLargeError struct {
	URL      string
	MaxBytes int
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("content too large for URL '%s': exceeds %d bytes", e.URL, e.MaxBytes)
}

// NewContentTooLargeError creates a new ContentTooLargeError.
func NewContentTooLargeError(url string, maxBytes int) error {
	return &ContentTooLargeError{URL: url, MaxBytes: maxBytes}
}
