// Package httputil provides HTTP utilities for loading remote graph dumps.
//
// # Overview
//
// Graph dumps are usually local files, but CI systems and debug endpoints
// often expose them over HTTP. This package provides the plumbing for that
// path:
//
//   - [Fetch]: Download a dump from a URL with size limiting
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Only errors wrapped in [RetryableError] are retried; everything else
// fails fast. [Fetch] classifies HTTP outcomes accordingly, so a 404
// returns immediately while a 503 backs off and tries again.
package httputil
