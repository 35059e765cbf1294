package tsc

// Span is a trace in progress. It holds the tag and the start counter value
// until End is called, at which point the stop counter value is read, and the
// complete trace is inserted into the buffer that created the span.
//
// Spans are created with Start, and should be closed with a deferred call to
// End, so that the trace is recorded on every path out of the enclosing
// function, including panics.
//
//	defer buf.Start(tagParse).End()
//
// A span is recorded at most once. Copies of a span share its open state in
// the buffer, so ending any one of them closes all of them.
//
// A span belongs to the goroutine that created it, and must not be passed to
// other goroutines. A span that is never ended keeps its open-span slot in the
// buffer for the life of the buffer.
type Span struct {
	buf   *Buffer
	slot  int
	gen   uint64
	tag   uint64
	start uint64
}

// Start reads the counter and returns a span with the given tag. The span is
// recorded in this buffer when End is called. A nil or zero-capacity buffer
// returns a zero span, whose End is a no-op.
func (b *Buffer) Start(tag uint64) Span {
	if b == nil || b.cap <= 0 {
		return Span{}
	}
	slot, gen := b.openSpan()
	return Span{buf: b, slot: slot, gen: gen, tag: tag, start: Counter()}
}

// Do runs fn within a span with the given tag. The span is recorded exactly
// once, even if fn panics.
func (b *Buffer) Do(tag uint64, fn func()) {
	defer b.Start(tag).End()
	fn()
}

// End reads the counter and records the span. The first call to End, on the
// span or any copy of it, records the trace, and subsequent calls are no-ops.
func (s Span) End() {
	if !s.Active() {
		return
	}
	stop := Counter()
	s.buf.closeSpan(s.slot)
	s.buf.Insert(s.tag, s.start, stop)
}

// Tag returns the tag the span was started with.
func (s Span) Tag() uint64 {
	return s.tag
}

// Begin returns the counter value read when the span was started.
func (s Span) Begin() uint64 {
	return s.start
}

// Active returns true if the span was started and End hasn't been called yet,
// on the span or any copy of it.
func (s Span) Active() bool {
	return s.buf != nil && s.buf.spanGens[s.slot] == s.gen
}

// openSpan takes a free open-span slot, and returns it with its current
// generation. Slots are reused, so the steady state doesn't allocate.
func (b *Buffer) openSpan() (slot int, gen uint64) {
	if n := len(b.spanFree); n > 0 {
		slot = b.spanFree[n-1]
		b.spanFree = b.spanFree[:n-1]
	} else {
		slot = len(b.spanGens)
		b.spanGens = append(b.spanGens, 0)
	}
	return slot, b.spanGens[slot]
}

// closeSpan advances the slot's generation, which invalidates every span
// holding the old one, and returns the slot to the free list.
func (b *Buffer) closeSpan(slot int) {
	b.spanGens[slot]++
	b.spanFree = append(b.spanFree, slot)
}
