package tscstats_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterbourgon/tsc"
	"github.com/peterbourgon/tsc/tscstats"
)

func AssertEqual[T any](t *testing.T, want, have T) {
	t.Helper()
	if !cmp.Equal(want, have) {
		t.Fatal(cmp.Diff(want, have))
	}
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("error %v", err)
	}
}

func TestObserve(t *testing.T) {
	t.Parallel()

	s := tscstats.NewStats([]uint64{0, 50, 100})
	s.Observe(
		tsc.Triple{Tag: 1, Start: 100, Stop: 150},
		tsc.Triple{Tag: 1, Start: 200, Stop: 210},
		tsc.Triple{Tag: 2, Start: 200, Stop: 400},
	)

	AssertEqual(t, 2, len(s.Tags))

	one := s.Tags[1]
	AssertEqual(t, 2, one.Count)
	AssertEqual(t, uint64(60), one.TotalTicks)
	AssertEqual(t, uint64(10), one.MinTicks)
	AssertEqual(t, uint64(50), one.MaxTicks)
	AssertEqual(t, uint64(100), one.FirstStart)
	AssertEqual(t, uint64(210), one.LastStop)
	AssertEqual(t, []int{2, 1, 0}, one.BucketCounts)
	AssertEqual(t, 30.0, one.MeanTicks())

	two := s.Tags[2]
	AssertEqual(t, 1, two.Count)
	AssertEqual(t, []int{1, 1, 1}, two.BucketCounts)

	all := s.AllTags()
	AssertEqual(t, 3, len(all))
	AssertEqual(t, uint64(1), all[0].Tag)
	AssertEqual(t, uint64(2), all[1].Tag)
	AssertEqual(t, true, all[2].Overall)
	AssertEqual(t, 3, all[2].Count)
	AssertEqual(t, uint64(10), all[2].MinTicks)
	AssertEqual(t, uint64(200), all[2].MaxTicks)
	AssertEqual(t, []int{3, 2, 1}, all[2].BucketCounts)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(12345))

	var (
		threadCount = 5
		traceCount  = 1024
		combined    = tscstats.NewStats(tscstats.DefaultBucketing)
		perThread   = make([]*tscstats.Stats, threadCount)
	)
	for i := range perThread {
		perThread[i] = tscstats.NewStats(tscstats.DefaultBucketing)
	}

	for i := 0; i < traceCount; i++ {
		var (
			start = uint64(rng.Int63n(1 << 40))
			tr    = tsc.Triple{Tag: uint64(rng.Intn(4)), Start: start, Stop: start + uint64(rng.Int63n(1<<20))}
		)
		perThread[rng.Intn(threadCount)].Observe(tr)
		combined.Observe(tr)
	}

	var merged tscstats.Stats
	for _, s := range perThread {
		merged.Merge(s)
	}

	AssertEqual(t, combined.Overall(), merged.Overall())
	for tag, want := range combined.Tags {
		AssertEqual(t, want, merged.Tags[tag])
	}
	AssertEqual(t, traceCount, merged.Overall().Count)
}

func TestMergeInconsistentBuckets(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Errorf("want panic, have none")
		}
	}()

	a := tscstats.NewStats([]uint64{0, 1})
	a.Observe(tsc.Triple{Tag: 1, Start: 1, Stop: 2})
	b := tscstats.NewStats([]uint64{0})
	b.Observe(tsc.Triple{Tag: 1, Start: 1, Stop: 2})
	a.Merge(b)
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	s := tscstats.NewStats([]uint64{0, 1000})
	s.Observe(
		tsc.Triple{Tag: 1, Start: 100, Stop: 150},
		tsc.Triple{Tag: 7, Start: 100, Stop: 5100},
	)

	var buf bytes.Buffer
	AssertNoError(t, s.WriteTable(&buf, tscstats.Names{1: "parse"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	AssertEqual(t, 4, len(lines))
	AssertEqual(t, []string{"TAG", "COUNT", "MIN", "MEAN", "MAX", ">=0", ">=1.0K"}, strings.Fields(lines[0]))
	AssertEqual(t, []string{"parse", "1", "50", "50", "50", "1", "0"}, strings.Fields(lines[1]))
	AssertEqual(t, []string{"7", "1", "5.0K", "5.0K", "5.0K", "1", "1"}, strings.Fields(lines[2]))
	AssertEqual(t, []string{"overall", "2", "50", "2.5K", "5.0K", "2", "1"}, strings.Fields(lines[3]))
}
