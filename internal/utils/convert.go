package utils

import "math"

// SafeUint64ToInt64 converts a uint64 to an int64, clamping at math.MaxInt64.
func SafeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(val)
}
