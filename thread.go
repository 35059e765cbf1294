package tsc

import (
	"io"
	"runtime"
	"sync"
)

// threads maps OS thread IDs to buffers. Each entry is only ever touched by the
// thread it belongs to, so the map is the only shared state.
var threads sync.Map // int -> *Buffer

// Thread returns the buffer belonging to the current OS thread, creating it on
// first use. The buffer lives until Release is called on the same thread.
// Release must run before a locked goroutine exits: Go gives no notice when a
// thread ends, so an unreleased buffer stays in the registry, and a later
// thread that reuses the ID would inherit it.
//
// Goroutines migrate between OS threads, so callers must hold the thread via
// [runtime.LockOSThread] for as long as they use the buffer, or use Pin. A
// locked thread runs no other goroutines, which is what makes the buffer
// private to the caller.
//
// Thread panics on operating systems without a notion of thread identity; use
// NewBuffer there.
func Thread() *Buffer {
	tid := threadID()
	if b, ok := threads.Load(tid); ok {
		return b.(*Buffer)
	}

	b := NewBuffer()
	threads.Store(tid, b)
	return b
}

// Pin locks the calling goroutine to its current OS thread, and returns that
// thread's buffer, as well as a function that releases the buffer and unlocks
// the thread. The returned buffer remains valid after unpin, so it can be
// exported either before or after. Typical usage is as follows.
//
//	buf, unpin := tsc.Pin()
//	defer unpin()
func Pin() (*Buffer, func()) {
	runtime.LockOSThread()
	return Thread(), unpin
}

func unpin() {
	Release()
	runtime.UnlockOSThread()
}

// Release removes the current OS thread's buffer from the registry and
// returns it, or nil if the thread has no buffer. The next call to Thread on
// this thread creates a new, empty buffer.
func Release() *Buffer {
	b, ok := threads.LoadAndDelete(threadID())
	if !ok {
		return nil
	}
	return b.(*Buffer)
}

//
//
//

// Integer is any integer type. Package-level functions accept any integer
// for tags and counter values, and convert them to uint64 with the usual Go
// conversion rules.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Start a span with the given tag in the current thread's buffer. The thread
// must be locked, see Thread. If tracing is disabled, Start returns a zero
// span, and doesn't touch the registry.
//
//	defer tsc.Start(tagParse).End()
func Start[T Integer](tag T) Span {
	if !Enabled {
		return Span{}
	}
	return Thread().Start(uint64(tag))
}

// Insert records a trace in the current thread's buffer, as if a span with the
// given tag had started at start and stopped at stop. The thread must be
// locked, see Thread. If tracing is disabled, Insert is a no-op.
func Insert[A, B, C Integer](tag A, start B, stop C) {
	if !Enabled {
		return
	}
	Thread().Insert(uint64(tag), uint64(start), uint64(stop))
}

// WriteText writes the current thread's buffer to w in FormatText. If tracing
// is disabled, nothing is written.
func WriteText(w io.Writer) error {
	if !Enabled {
		return nil
	}
	return Thread().WriteText(w)
}

// WriteBinary writes the current thread's buffer to w in FormatBinary. If
// tracing is disabled, nothing is written.
func WriteBinary(w io.Writer) error {
	if !Enabled {
		return nil
	}
	return Thread().WriteBinary(w)
}
