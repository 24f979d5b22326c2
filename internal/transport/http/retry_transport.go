package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/np1/pms/internal/logger"
	"github.com/np1/pms/internal/utils"
)

// RetryTransport is an http.RoundTripper that repeats idempotent requests
// after transport errors, 429 and 5xx responses.
type RetryTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// attempts is the total number of tries, the first one included.
	attempts int64
	// minPause and maxPause bound the randomized pause between tries.
	minPause time.Duration
	maxPause time.Duration
}

// formContentType is the content type of the link resolution request, which is safe to repeat.
const formContentType = "application/x-www-form-urlencoded"

// NewRetryTransport wraps next with retries. Fewer than one attempt is treated as one.
func NewRetryTransport(next http.RoundTripper, attempts int64, minPause, maxPause time.Duration) http.RoundTripper {
	return &RetryTransport{
		next:     next,
		attempts: max(attempts, 1),
		minPause: minPause,
		maxPause: maxPause,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if !isRetryable(req) {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()

	for attempt := int64(1); ; attempt++ {
		attemptReq, err := rewind(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := t.next.RoundTrip(attemptReq)
		if attempt >= t.attempts || !shouldRetry(resp, err) || ctx.Err() != nil {
			return resp, err
		}

		if err != nil {
			logger.Warnf(ctx, "Request %s %s failed (%d of %d attempts): %v",
				req.Method, req.URL.Path, attempt, t.attempts, err)
		} else {
			logger.Warnf(ctx, "Request %s %s returned %d (%d of %d attempts)",
				req.Method, req.URL.Path, resp.StatusCode, attempt, t.attempts)

			drainAndClose(resp.Body)
		}

		if err = utils.RandomPauseContext(ctx, t.minPause, t.maxPause); err != nil {
			return nil, err
		}
	}
}

// isRetryable reports whether repeating req cannot change server state.
func isRetryable(req *http.Request) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
	case http.MethodPost:
		return req.GetBody != nil &&
			strings.HasPrefix(req.Header.Get("Content-Type"), formContentType)
	default:
		return false
	}
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, ErrNilRequest)
	}

	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
}

// rewind returns the request to send on the given attempt with a fresh body.
func rewind(req *http.Request, attempt int64) (*http.Request, error) {
	if attempt == 1 || req.GetBody == nil {
		return req, nil
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}

	clone := req.Clone(req.Context())
	clone.Body = body

	return clone, nil
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}

	//nolint:errcheck // Best effort so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64*1024))
	_ = body.Close()
}
