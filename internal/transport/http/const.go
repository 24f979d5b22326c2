package http

import "time"

const (
	// DefaultTimeout is the default timeout duration for catalog requests.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is the User-Agent sent to the catalog service.
	// The service answers browser-like clients only.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36" //nolint: lll
)
