package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMinPause = time.Millisecond
	testMaxPause = 2 * time.Millisecond
)

// statusSequenceServer answers with the given status codes in order, then 200.
func statusSequenceServer(t *testing.T, calls *atomic.Int32, statuses ...int) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		index := int(calls.Add(1)) - 1
		if index < len(statuses) {
			w.WriteHeader(statuses[index])

			return
		}

		_, _ = io.WriteString(w, "ok")
	}))
	t.Cleanup(server.Close)

	return server
}

// TestRetryTransport_RetriesTransientStatuses tests that 429 and 5xx are retried.
func TestRetryTransport_RetriesTransientStatuses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := statusSequenceServer(t, &calls, http.StatusServiceUnavailable, http.StatusTooManyRequests)
	client := &http.Client{Transport: NewRetryTransport(http.DefaultTransport, 3, testMinPause, testMaxPause)}

	resp, err := client.Get(server.URL) //nolint:noctx // Test code, context not needed.
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

// TestRetryTransport_GivesUp tests that the last response is returned once attempts run out.
func TestRetryTransport_GivesUp(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := statusSequenceServer(t, &calls,
		http.StatusBadGateway, http.StatusBadGateway, http.StatusBadGateway)
	client := &http.Client{Transport: NewRetryTransport(http.DefaultTransport, 2, testMinPause, testMaxPause)}

	resp, err := client.Get(server.URL) //nolint:noctx // Test code, context not needed.
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

// TestRetryTransport_DoesNotRetryClientErrors tests that 4xx other than 429 are returned at once.
func TestRetryTransport_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := statusSequenceServer(t, &calls, http.StatusNotFound)
	client := &http.Client{Transport: NewRetryTransport(http.DefaultTransport, 3, testMinPause, testMaxPause)}

	resp, err := client.Get(server.URL) //nolint:noctx // Test code, context not needed.
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

// TestRetryTransport_FormPostBodyRewound tests that a form POST is retried with its full body.
func TestRetryTransport_FormPostBodyRewound(t *testing.T) {
	t.Parallel()

	var (
		calls  atomic.Int32
		bodies = make(chan string, 2)
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		bodies <- r.PostForm.Encode()

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRetryTransport(http.DefaultTransport, 3, testMinPause, testMaxPause)}

	form := url.Values{"action": {"download"}, "id": {"abc"}}

	resp, err := client.PostForm(server.URL, form) //nolint:noctx // Test code, context not needed.
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, form.Encode(), <-bodies)
	assert.Equal(t, form.Encode(), <-bodies)
}

// TestRetryTransport_NonIdempotentNotRetried tests that other POST bodies are sent once.
func TestRetryTransport_NonIdempotentNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := statusSequenceServer(t, &calls, http.StatusInternalServerError)
	client := &http.Client{Transport: NewRetryTransport(http.DefaultTransport, 3, testMinPause, testMaxPause)}

	//nolint:noctx // Test code, context not needed.
	resp, err := client.Post(server.URL, "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

// TestRetryTransport_ContextCanceledDuringPause tests that cancellation stops the retries.
func TestRetryTransport_ContextCanceledDuringPause(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := statusSequenceServer(t, &calls,
		http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusServiceUnavailable)
	client := &http.Client{Transport: NewRetryTransport(http.DefaultTransport, 3, time.Minute, time.Minute)}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)

	start := time.Now()
	resp, err := client.Do(req) //nolint:bodyclose // Body is empty on error.
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, resp)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), calls.Load())
}

// TestRetryTransport_NilRequest tests the nil request guard.
func TestRetryTransport_NilRequest(t *testing.T) {
	t.Parallel()

	transport := NewRetryTransport(http.DefaultTransport, 3, testMinPause, testMaxPause)

	resp, err := transport.RoundTrip(nil) //nolint:bodyclose // Nil response.
	require.ErrorIs(t, err, ErrNilRequest)
	assert.Nil(t, resp)
}
