package tscutil

import (
	"fmt"
)

// HumanizeTicks returns a human-friendly string representation of a tick
// count, trying to ensure a max width of 4-5 characters, and using K, M, and
// G suffixes for thousands, millions, and billions, e.g. "32K" or "1.5G".
func HumanizeTicks[T ~uint64 | ~float64](n T) string {
	f := float64(n)
	switch {
	case f >= 1e10:
		return fmt.Sprintf("%.0fG", f/1e9) // 32756000000 -> 33G
	case f >= 1e9:
		return fmt.Sprintf("%.1fG", f/1e9) // 1512000000 -> 1.5G
	case f >= 1e7:
		return fmt.Sprintf("%.0fM", f/1e6)
	case f >= 1e6:
		return fmt.Sprintf("%.1fM", f/1e6)
	case f >= 1e4:
		return fmt.Sprintf("%.0fK", f/1e3) // 32756 -> 33K
	case f >= 1e3:
		return fmt.Sprintf("%.1fK", f/1e3) // 5142 -> 5.1K
	case f >= 1 || f == 0:
		return fmt.Sprintf("%.0f", f) // 812.3 -> 812
	default:
		return fmt.Sprintf("%0.01f", f) // 0.15845 -> 0.2
	}
}

// HumanizeBytes returns a human-friendly string representation of n, which is
// assumed to be bytes. KB is used to represent 1024 bytes, and MB is used to
// represent 1048576 bytes, and GB is used for anything over 10GB.
func HumanizeBytes[T interface {
	~int | ~uint | ~int64 | ~uint64
}](n T) string {
	var (
		kib = float64(1024)
		mib = float64(1024 * kib)
		gib = float64(1024 * mib)
		fn  = float64(n)
	)
	switch {
	case fn < 1*kib:
		return fmt.Sprintf("%0.0fB", fn)
	case fn < 100*kib:
		return fmt.Sprintf("%.1fKB", fn/kib)
	case fn < 1*mib:
		return fmt.Sprintf("%.0fKB", fn/kib)
	case fn < 100*mib:
		return fmt.Sprintf("%.1fMB", fn/mib)
	case fn < 10*gib:
		return fmt.Sprintf("%.0fMB", fn/mib)
	default:
		return fmt.Sprintf("%.0fGB", fn/gib)
	}
}
