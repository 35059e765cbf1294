//go:build !tsc_fixed

package tsc

// FixedStorage is true when buffers allocate their full, zeroed backing array
// at creation, rather than growing it on demand up to capacity.
const FixedStorage = false
