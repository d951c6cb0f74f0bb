package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxDumpSize caps the size of a fetched graph dump. Dumps larger than this
// suggest a wrong URL (an HTML page, a binary) rather than a real dump.
const MaxDumpSize = 64 << 20 // 64 MiB

// fetchClient is the HTTP client used by [Fetch]. The timeout covers the
// whole request including body read.
var fetchClient = &http.Client{Timeout: 60 * time.Second}

// IsURL reports whether s looks like an HTTP or HTTPS URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads a graph dump from url, retrying transient failures.
// Network errors, 5xx responses and 429 rate limiting are retried with
// exponential backoff; other non-200 statuses fail immediately.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	err := RetryWithBackoff(ctx, func() error {
		var fetchErr error
		body, fetchErr = fetchOnce(ctx, url)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// fetchOnce performs a single download attempt, classifying failures as
// retryable or permanent.
func fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to body read
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RetryableError{Err: fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)}
	default:
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDumpSize+1))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	if len(body) > MaxDumpSize {
		return nil, fmt.Errorf("fetch %s: dump exceeds %d bytes", url, MaxDumpSize)
	}
	return body, nil
}
