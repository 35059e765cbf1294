package tsc

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Buffer is a fixed-capacity ring of traces. Traces are stored as a flat
// sequence of uint64 words, three words per trace. Once the buffer is full,
// each new trace overwrites the slot under the write cursor, so a full sweep
// replaces traces in the order they were originally inserted.
//
// A buffer is owned by exactly one goroutine, and is not safe for concurrent
// use. There are no locks or atomics anywhere on the insert path. Most
// programs get a buffer via Thread or Pin, but buffers can also be created
// directly with NewBuffer and passed around explicitly.
type Buffer struct {
	id    ulid.ULID
	words []uint64 // len == cap for fixed storage, grows up to cap otherwise
	cap   int      // in words, always a multiple of 3
	cur   int      // word offset of the next write, always a multiple of 3
	len   int      // count of live traces

	spanGens []uint64 // generation per open-span slot, see Span
	spanFree []int    // open-span slots available for reuse

	line  [textLineMax]byte
	chunk [binaryChunkBytes]byte
}

// NewBuffer returns an empty buffer with the build-time Capacity and storage
// strategy. With fixed storage, the complete backing array is allocated here;
// otherwise it grows as traces are inserted, and stops growing at capacity.
func NewBuffer() *Buffer {
	return newBuffer(Capacity, FixedStorage)
}

// growWordsMin is the initial backing array length for growing storage.
const growWordsMin = 3 * 4096

var bufferIDEntropy = ulid.DefaultEntropy()

func newBuffer(capacity int, fixed bool) *Buffer {
	if capacity < 0 {
		capacity = 0
	}

	b := &Buffer{
		id:  ulid.MustNew(ulid.Timestamp(time.Now()), bufferIDEntropy),
		cap: 3 * capacity,
	}

	switch {
	case fixed:
		b.words = make([]uint64, b.cap)
	default:
		b.words = make([]uint64, 0, min(b.cap, growWordsMin))
	}

	return b
}

// ID returns a unique identifier for the buffer, assigned at creation. It's
// used to name exported files.
func (b *Buffer) ID() ulid.ULID {
	return b.id
}

// Capacity returns the maximum number of traces the buffer can hold.
func (b *Buffer) Capacity() int {
	return b.cap / 3
}

// Len returns the number of live traces in the buffer, which is the number of
// inserted traces, up to capacity.
func (b *Buffer) Len() int {
	return b.len
}

// Cursor returns the word offset where the next trace will be written. It's
// always a multiple of 3, and always less than 3 times the capacity (or zero,
// for a zero-capacity buffer).
func (b *Buffer) Cursor() int {
	return b.cur
}

// Insert records a trace with the given tag, start, and stop values directly,
// without reading the counter. It's meant for callers that already have their
// own start and stop values, e.g. spans over non-contiguous regions of code.
// Start and stop aren't validated in any way.
//
// Insert never fails. If the buffer is full, the oldest trace at the cursor
// position is overwritten.
func (b *Buffer) Insert(tag, start, stop uint64) {
	// Zero capacity means tracing is disabled.
	if b.cap <= 0 {
		return
	}

	// The cursor is always wrapped after a write, but check anyway.
	i := b.cur
	if i >= b.cap {
		i = 0
	}

	// Growing storage appends until it reaches capacity. Appends always land
	// at the cursor, because the cursor can't wrap before the buffer is full.
	if len(b.words) < b.cap {
		b.append(tag, start, stop)
	} else {
		b.words[i+0] = tag
		b.words[i+1] = start
		b.words[i+2] = stop
	}

	// Update the count of live traces.
	if b.len < b.cap/3 {
		b.len += 1
	}

	// Advance the write cursor.
	i += 3
	if i >= b.cap {
		i = 0
	}
	b.cur = i
}

func (b *Buffer) append(tag, start, stop uint64) {
	if len(b.words)+3 > cap(b.words) {
		n := min(max(2*cap(b.words), growWordsMin), b.cap)
		words := make([]uint64, len(b.words), n)
		copy(words, b.words)
		b.words = words
	}
	b.words = append(b.words, tag, start, stop)
}

// Slot returns the trace stored in the given slot, where slot 0 is the first
// three words of the buffer. Slots that have never been written return a zero
// triple.
func (b *Buffer) Slot(slot int) Triple {
	i := 3 * slot
	if slot < 0 || i+2 >= len(b.words) {
		return Triple{}
	}
	return Triple{Tag: b.words[i], Start: b.words[i+1], Stop: b.words[i+2]}
}

// Walk calls fn for each live trace in the buffer, in slot order. Once the
// buffer has wrapped, slot order is not insertion order: the oldest trace is
// the one at the cursor. If fn returns an error, Walk stops and returns that
// error.
func (b *Buffer) Walk(fn func(Triple) error) error {
	for slot := 0; slot < b.len; slot++ {
		if err := fn(b.Slot(slot)); err != nil {
			return err
		}
	}
	return nil
}

// Oldest returns the least recently inserted live trace, and false if the
// buffer is empty.
func (b *Buffer) Oldest() (Triple, bool) {
	switch {
	case b.len == 0:
		return Triple{}, false
	case b.len < b.cap/3:
		return b.Slot(0), true
	default:
		return b.Slot(b.cur / 3), true
	}
}

// Newest returns the most recently inserted trace, and false if the buffer is
// empty.
func (b *Buffer) Newest() (Triple, bool) {
	if b.len == 0 {
		return Triple{}, false
	}
	i := b.cur - 3
	if i < 0 {
		i += b.cap
	}
	return b.Slot(i / 3), true
}
