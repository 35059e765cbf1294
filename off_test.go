//go:build tsc_off

package tsc

import (
	"bytes"
	"testing"
)

func TestDisabled(t *testing.T) {
	AssertEqual(t, false, Enabled)
	AssertEqual(t, 0, Capacity)

	for i := 0; i < 100; i++ {
		span := Start(i)
		Insert(i, i, i+1)
		span.End()
		func() { defer Start(i).End() }()
	}

	var buf bytes.Buffer
	AssertNoError(t, WriteText(&buf))
	AssertNoError(t, WriteBinary(&buf))
	AssertEqual(t, 0, buf.Len())

	b := NewBuffer()
	b.Insert(1, 2, 3)
	AssertEqual(t, 0, b.Len())
	AssertNoError(t, b.WriteBinary(&buf))
	AssertEqual(t, 0, buf.Len())
}
