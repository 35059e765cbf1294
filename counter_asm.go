//go:build amd64 || 386 || arm64

package tsc

// Counter returns the current value of the hardware timestamp counter.
//
// On amd64 and 386 this is RDTSC. With the tsc_lfence build tag, the read is
// bracketed by LFENCE instructions, so that surrounding loads can't be
// reordered across it. On arm64 it's the virtual counter CNTVCT_EL0, which
// ticks at a different frequency than the x86 TSC; values from different
// architectures can't be compared.
//
// Values are raw ticks, not calibrated to wall-clock time.
func Counter() uint64
