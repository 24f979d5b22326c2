// Package http provides the http.RoundTripper decorators used by the catalog client:
// User-Agent injection, debug logging of requests and responses, and retries with
// randomized pauses for transient failures.
package http
