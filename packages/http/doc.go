// Package http provides the HTTP client used by goalcheck to talk to the
// API under test.
//
// It wraps the standard library's http package with:
//   - A fixed per-call timeout
//   - Redirect, proxy and TLS verification options
//   - JSON and bearer-token request helpers
//   - Fully read responses with timing
//   - Shell-safe curl reproductions of requests
package http
