package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSimpleUserAgentProvider tests that the provider returns the configured value.
func TestSimpleUserAgentProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
	}{
		{
			name:      "empty user agent",
			userAgent: "",
		},
		{
			name:      "browser user agent",
			userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
		},
		{
			name:      "program user agent",
			userAgent: "pms/0.16.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := NewSimpleUserAgentProvider(tt.userAgent)
			assert.Implements(t, (*UserAgentProvider)(nil), provider)
			assert.Equal(t, tt.userAgent, provider.GetUserAgent())
		})
	}
}
