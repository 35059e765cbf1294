//go:build !linux && !windows

package tsc

import "runtime"

func threadID() int {
	panic("tsc: OS thread identity is not available on " + runtime.GOOS + "; use NewBuffer")
}
