// Package tsc records low-overhead timing traces using the processor's
// timestamp counter. The package is inspired by the Rust tsc-trace crate.
//
// The basic idea is to mark the start and end of a region of code, a "span",
// with a numeric tag. Each span produces a trace: the tag, and the counter
// values read at the start and the end. Traces are stored in a fixed-capacity
// ring buffer, and once the buffer is full, new traces overwrite the oldest
// ones. Nothing is allocated, locked, or synchronized when a trace is
// recorded.
//
// Buffers are private to their owner. Most programs use one buffer per OS
// thread, via [Pin] or [Thread], and the package-level [Start] and [Insert]
// functions, which operate on the current thread's buffer.
//
//	func worker(jobs <-chan job) error {
//	    buf, unpin := tsc.Pin()
//	    defer unpin()
//
//	    for j := range jobs {
//	        span := buf.Start(tagJob)
//	        j.run()
//	        span.End()
//	    }
//
//	    path, err := buf.WriteFile(os.TempDir(), tsc.FormatBinary)
//	    if err != nil {
//	        return fmt.Errorf("export traces: %w", err)
//	    }
//
//	    log.Printf("traces written to %s", path)
//	    return nil
//	}
//
// Exporting is the only operation that can fail. A failed export leaves the
// buffer untouched, so it can be retried, e.g. to a different directory.
//
// There's no cross-thread aggregation. Each owner exports its own buffer, in
// one of two formats. [FormatText] is human-readable, one line per trace, and
// ends at the first unused slot. [FormatBinary] is the raw buffer, including
// unused slots, and is meant for bulk loading into a columnar store. See
// package [github.com/peterbourgon/tsc/tscfile] for decoders, and
// [github.com/peterbourgon/tsc/tscload] for loaders.
//
// Counter values are raw ticks, and aren't calibrated to wall-clock time. On
// amd64 and 386 they come from RDTSC; on arm64, from the virtual counter
// CNTVCT_EL0, which is a different clock with a different frequency. Other
// architectures aren't supported, and [Counter] panics there.
//
// Behavior is configured at build time with tags.
//
//   - tsc_capacity_8m, tsc_capacity_16m, tsc_capacity_32m, tsc_capacity_64m
//     select the per-buffer capacity, in traces; the default is 1 million.
//   - tsc_off disables tracing: capacity is zero, and the package-level
//     functions are no-ops.
//   - tsc_fixed allocates each buffer's complete backing array up front,
//     instead of growing it on demand.
//   - tsc_lfence brackets each counter read with LFENCE instructions on x86.
//
// A stop value of zero marks an unused slot in the text format, so callers of
// [Insert] must never record a real trace with a zero stop value.
package tsc
