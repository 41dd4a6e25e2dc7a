package urlhandler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL normalizes a URL string, ensuring it has a scheme, lowercase
// scheme and host, and no fragment.
func NormalizeURL(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", errors.New("URL is empty or only whitespace")
	}

	// Add scheme if missing
	if !strings.Contains(trimmedURL, "://") && !strings.HasPrefix(trimmedURL, "//") {
		trimmedURL = "http://" + trimmedURL
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return "", fmt.Errorf("could not parse URL '%s': %w", trimmedURL, err)
	}

	if parsedURL.Host == "" {
		return "", errors.New("URL lacks a valid hostname")
	}

	parsedURL.Scheme = strings.ToLower(parsedURL.Scheme)
	parsedURL.Host = strings.ToLower(parsedURL.Host)
	parsedURL.Fragment = ""

	return parsedURL.String(), nil
}

// ValidateURLFormat checks that a URL string parses as an absolute http(s)
// URL with a hostname. It does not touch the network.
func ValidateURLFormat(rawURL string) error {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return errors.New("URL is empty or only whitespace")
	}

	parsedURL, err := url.Parse(trimmedURL)
	if err != nil {
		return fmt.Errorf("could not parse URL '%s': %w", trimmedURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL '%s' has unsupported scheme '%s'", trimmedURL, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("URL '%s' lacks a hostname", trimmedURL)
	}

	return nil
}
