package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/np1/pms/internal/logger"
)

// TestLogTransport_PassesThrough tests that responses are unchanged at every log level.
func TestLogTransport_PassesThrough(t *testing.T) {
	// Don't run in parallel, the log level is global.
	originalLevel := logger.Level()
	defer logger.SetLevel(originalLevel)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewLogTransport(http.DefaultTransport, 8)}

	for _, level := range []zapcore.Level{zapcore.InfoLevel, zapcore.DebugLevel} {
		logger.SetLevel(level)

		resp, err := client.Get(server.URL) //nolint:noctx // Test code, context not needed.
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close() //nolint:errcheck,gosec // Test cleanup, error is not critical.

		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true}`, string(body))
	}
}

// TestLogTransport_NilRequest tests the nil request guard.
func TestLogTransport_NilRequest(t *testing.T) {
	t.Parallel()

	resp, err := NewLogTransport(http.DefaultTransport, 0).RoundTrip(nil) //nolint:bodyclose // Nil response.
	require.ErrorIs(t, err, ErrNilRequest)
	assert.Nil(t, resp)
}

// TestLogTransport_Truncate tests the dump truncation.
func TestLogTransport_Truncate(t *testing.T) {
	t.Parallel()

	transport, ok := NewLogTransport(http.DefaultTransport, 4).(*LogTransport)
	require.True(t, ok)

	assert.Equal(t, "abc", transport.truncate([]byte("abc")))
	assert.Equal(t, "abcd... [truncated]", transport.truncate([]byte("abcdef")))
}
