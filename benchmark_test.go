package tsc

import (
	"io"
	"testing"
)

func BenchmarkCounter(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Counter()
	}
}

func BenchmarkInsert(b *testing.B) {
	for name, fixed := range strategies() {
		b.Run(name, func(b *testing.B) {
			buf := newBuffer(100_000, fixed)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf.Insert(1, uint64(i), uint64(i+1))
			}
		})
	}
}

func BenchmarkSpan(b *testing.B) {
	buf := newBuffer(100_000, true)

	b.Run("Start+End", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			span := buf.Start(1)
			span.End()
		}
	})

	b.Run("Do", func(b *testing.B) {
		b.ReportAllocs()
		fn := func() {}
		for i := 0; i < b.N; i++ {
			buf.Do(1, fn)
		}
	})
}

func BenchmarkExport(b *testing.B) {
	buf := newBuffer(100_000, true)
	for i := 0; i < 100_000; i++ {
		buf.Insert(uint64(i%10), uint64(i), uint64(i+100))
	}

	b.Run("WriteText", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			buf.WriteText(io.Discard)
		}
	})

	b.Run("WriteBinary", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			buf.WriteBinary(io.Discard)
		}
	})
}
