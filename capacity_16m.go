//go:build !tsc_off && tsc_capacity_16m

package tsc

// Capacity is the number of traces each buffer holds before it wraps around
// and starts overwriting the oldest ones. It's selected at build time with
// one of the tsc_capacity_* tags, or tsc_off.
const Capacity = 16_000_000
