package utils

import (
	"context"
	"math/rand/v2"
	"time"
)

// RandomDuration returns a random duration in [minPause, maxPause).
// The bounds are swapped when given in the wrong order.
func RandomDuration(minPause, maxPause time.Duration) time.Duration {
	if minPause > maxPause {
		minPause, maxPause = maxPause, minPause
	}

	if minPause == maxPause {
		return minPause
	}

	//nolint:gosec // Jitter does not need a cryptographic source.
	return minPause + time.Duration(rand.Int64N(int64(maxPause-minPause)))
}

// RandomPauseContext sleeps for a random duration between minPause and maxPause.
// It returns early with the context error when ctx is done.
func RandomPauseContext(ctx context.Context, minPause, maxPause time.Duration) error {
	timer := time.NewTimer(RandomDuration(minPause, maxPause))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
