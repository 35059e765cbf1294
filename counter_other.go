//go:build !amd64 && !386 && !arm64

package tsc

import "runtime"

const counterName = "unsupported"

// Counter is not implemented on this architecture. There's no safe default
// value for a missing timestamp source, so it panics.
func Counter() uint64 {
	panic("tsc: no timestamp counter on " + runtime.GOARCH + " (need amd64, 386, or arm64)")
}
