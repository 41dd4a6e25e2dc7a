// Package fetcher performs single, bounded retrievals of monitored
// resources. It never retries: retry policy belongs to the scheduler, where
// failure accounting is centrally observable.
package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"pagewatch/internal/config"
)

// Result holds the raw outcome of one successful fetch.
type Result struct {
	Body        []byte
	ContentType string
	StatusCode  int
	FetchedAt   time.Time
}

// Fetcher retrieves the current content of monitored URLs.
type Fetcher struct {
	httpClient *http.Client
	logger     zerolog.Logger
	timeout    time.Duration
	maxBytes   int
	userAgent  string
}

// New creates a Fetcher from monitor configuration. The shared transport
// pools connections across all monitored targets.
func New(cfg *config.MonitorConfig, logger zerolog.Logger) *Fetcher {
	timeout := cfg.HTTPTimeout.Std()
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	maxBytes := cfg.MaxContentSize
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxContentSize
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	return &Fetcher{
		httpClient: &http.Client{
			// No client-wide timeout; the per-request context bounds each
			// fetch and carries the shutdown signal.
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		logger:    logger.With().Str("component", "Fetcher").Logger(),
		timeout:   timeout,
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

// Fetch performs one retrieval of url. The call is bounded by the
// configured timeout and cancelled when ctx is cancelled. Failures map to
// the package error taxonomy: ErrTimeout, *NetworkError, *HTTPError and
// *ContentTooLargeError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewNetworkError(url, "creating request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if isTimeout(reqCtx, err) {
			return nil, ErrTimeout
		}
		return nil, NewNetworkError(url, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, url)
	}

	if resp.ContentLength > int64(f.maxBytes) {
		return nil, NewContentTooLargeError(url, f.maxBytes)
	}

	// Read one byte past the cap so an exact-size body is distinguishable
	// from an oversized one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.maxBytes)+1))
	if err != nil {
		if isTimeout(reqCtx, err) {
			return nil, ErrTimeout
		}
		return nil, NewNetworkError(url, "reading response body", err)
	}
	if len(body) > f.maxBytes {
		return nil, NewContentTooLargeError(url, f.maxBytes)
	}

	result := &Result{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FetchedAt:   time.Now(),
	}

	f.logger.Debug().
		Str("url", url).
		Int("status_code", result.StatusCode).
		Int("size", len(result.Body)).
		Msg("Content fetched")
	return result, nil
}

// isTimeout reports whether err was caused by the per-request deadline
// rather than by caller cancellation or a plain network failure.
func isTimeout(reqCtx context.Context, err error) bool {
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
