package utils

import (
	"fmt"
	"net/url"
)

// ParseSecureURL rejects anything but https unless allowInsecure is set.
func ParseSecureURL(raw string, allowInsecure bool) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	switch {
	case parsed.Scheme == "https":
	case parsed.Scheme == "http" && allowInsecure:
	default:
		return nil, fmt.Errorf("insecure URL rejected: %s", raw)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("URL has no host: %s", raw)
	}
	return parsed, nil
}
