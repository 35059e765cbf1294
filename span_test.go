package tsc

import (
	"bytes"
	"errors"
	"testing"
)

func TestSpanEnd(t *testing.T) {
	t.Parallel()

	b := newBuffer(4, false)

	span := b.Start(5)
	AssertEqual(t, true, span.Active())
	AssertEqual(t, uint64(5), span.Tag())
	AssertEqual(t, 0, b.Len())

	span.End()
	AssertEqual(t, false, span.Active())
	AssertEqual(t, 1, b.Len())

	tr := b.Slot(0)
	AssertEqual(t, uint64(5), tr.Tag)
	AssertEqual(t, span.Begin(), tr.Start)

	span.End()
	span.End()
	AssertEqual(t, 1, b.Len())
	AssertEqual(t, 3, b.Cursor())
}

func TestSpanCopyEndsOnce(t *testing.T) {
	t.Parallel()

	b := newBuffer(4, false)

	span := b.Start(1)
	cp := span
	AssertEqual(t, true, cp.Active())

	span.End()
	AssertEqual(t, false, cp.Active())
	cp.End()
	span.End()
	AssertEqual(t, 1, b.Len())

	// A stale copy must not close a later span that reuses its slot.
	next := b.Start(2)
	cp.End()
	AssertEqual(t, true, next.Active())
	AssertEqual(t, 1, b.Len())

	next.End()
	AssertEqual(t, 2, b.Len())
	AssertEqual(t, []uint64{1, 2}, []uint64{b.Slot(0).Tag, b.Slot(1).Tag})
}

func TestSpanNestedOutOfOrder(t *testing.T) {
	t.Parallel()

	b := newBuffer(8, true)

	outer := b.Start(1)
	inner := b.Start(2)
	outer.End()
	third := b.Start(3)
	inner.End()
	third.End()
	outer.End()
	inner.End()

	AssertEqual(t, 3, b.Len())
	AssertEqual(t, []uint64{1, 2, 3}, []uint64{b.Slot(0).Tag, b.Slot(1).Tag, b.Slot(2).Tag})
}

func TestSpanDeferredOneLiner(t *testing.T) {
	t.Parallel()

	b := newBuffer(4, false)

	func() {
		defer b.Start(7).End()
		AssertEqual(t, 0, b.Len())
	}()

	AssertEqual(t, 1, b.Len())
	AssertEqual(t, uint64(7), b.Slot(0).Tag)
}

func TestSpanDeferredEnd(t *testing.T) {
	t.Parallel()

	b := newBuffer(8, false)
	errEarly := errors.New("early")

	work := func(fail bool) error {
		span := b.Start(1)
		defer span.End()
		if fail {
			return errEarly
		}
		return nil
	}

	AssertNoError(t, work(false))
	if err := work(true); !errors.Is(err, errEarly) {
		t.Fatalf("want %v, have %v", errEarly, err)
	}

	func() {
		defer func() { recover() }()
		span := b.Start(2)
		defer span.End()
		panic("boom")
	}()

	AssertEqual(t, 3, b.Len())
	AssertEqual(t, []uint64{1, 1, 2}, []uint64{b.Slot(0).Tag, b.Slot(1).Tag, b.Slot(2).Tag})
}

func TestDo(t *testing.T) {
	t.Parallel()

	b := newBuffer(8, true)

	var ran bool
	b.Do(9, func() { ran = true })
	AssertEqual(t, true, ran)
	AssertEqual(t, 1, b.Len())
	AssertEqual(t, uint64(9), b.Slot(0).Tag)

	func() {
		defer func() { recover() }()
		b.Do(10, func() { panic("boom") })
	}()
	AssertEqual(t, 2, b.Len())
	AssertEqual(t, uint64(10), b.Slot(1).Tag)
}

func TestInsertEquivalentToSpan(t *testing.T) {
	t.Parallel()

	for name, fixed := range strategies() {
		var (
			spanned  = newBuffer(4, fixed)
			inserted = newBuffer(4, fixed)
		)

		span := spanned.Start(42)
		span.End()
		tr := spanned.Slot(0)

		inserted.Insert(tr.Tag, span.Begin(), tr.Stop)

		AssertEqual(t, spanned.Len(), inserted.Len())
		AssertEqual(t, spanned.Cursor(), inserted.Cursor())

		var a, b bytes.Buffer
		AssertNoError(t, spanned.WriteBinary(&a))
		AssertNoError(t, inserted.WriteBinary(&b))
		if !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Errorf("%s: buffers differ after span vs. insert", name)
		}
	}
}

func TestNilBufferStart(t *testing.T) {
	t.Parallel()

	var b *Buffer
	span := b.Start(1)
	span.End()
	AssertEqual(t, false, span.Active())
}
