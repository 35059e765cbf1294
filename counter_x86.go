//go:build amd64 || 386

package tsc

const counterName = "rdtsc"
