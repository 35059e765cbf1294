// Package tscstats computes per-tag statistics over exported traces.
package tscstats

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/peterbourgon/tsc"
)

// DefaultBucketing is the default set of tick buckets used to group traces by
// their delta. At a few GHz, the buckets span roughly nanoseconds to seconds.
var DefaultBucketing = []uint64{
	0,
	100,
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
}

// Names maps tags to human-readable names.
type Names map[uint64]string

// Name returns the name for the tag, or the tag in decimal if it has no name.
func (n Names) Name(tag uint64) string {
	if name, ok := n[tag]; ok {
		return name
	}
	return strconv.FormatUint(tag, 10)
}

// Stats are statistics over a set of traces, grouped by tag.
type Stats struct {
	Bucketing []uint64             `json:"bucketing"`
	Tags      map[uint64]*TagStats `json:"tags"`
}

// NewStats creates a new and empty stats, with the given tick buckets for
// grouping traces.
func NewStats(bucketing []uint64) *Stats {
	return &Stats{
		Bucketing: bucketing,
		Tags:      map[uint64]*TagStats{},
	}
}

// IsZero returns true if the stats are empty.
func (s *Stats) IsZero() bool {
	if s == nil {
		return true
	}

	if len(s.Bucketing) <= 0 {
		return true
	}

	return false
}

// Observe the given traces into the stats.
func (s *Stats) Observe(trs ...tsc.Triple) {
	if s.Tags == nil {
		s.Tags = map[uint64]*TagStats{}
	}
	for _, tr := range trs {
		ts, ok := s.Tags[tr.Tag]
		if !ok {
			ts = NewTagStats(tr.Tag, s.Bucketing)
			s.Tags[tr.Tag] = ts
		}
		ts.Observe(tr, s.Bucketing)
	}
}

// Merge the other stats into this one. Typically used to combine the stats of
// buffers exported by different threads.
func (s *Stats) Merge(other *Stats) {
	if other.IsZero() {
		return
	}

	if s.IsZero() {
		s.Bucketing = other.Bucketing
		s.Tags = map[uint64]*TagStats{}
	}

	if dst, src := len(s.Bucketing), len(other.Bucketing); dst != src {
		panic(fmt.Errorf("bad merge: inconsistent buckets: %d vs. %d", dst, src))
	}

	for tag, theirs := range other.Tags {
		ours, ok := s.Tags[tag]
		if !ok {
			cp := *theirs
			cp.BucketCounts = append([]int(nil), theirs.BucketCounts...)
			s.Tags[tag] = &cp
			continue
		}
		ours.Merge(theirs)
	}
}

// Overall returns a synthetic tag stats representing all tags.
func (s *Stats) Overall() *TagStats {
	overall := NewTagStats(0, s.Bucketing)
	overall.Overall = true
	for _, ts := range s.Tags {
		overall.Merge(ts)
	}
	return overall
}

// AllTags returns tag stats for all known tags, ordered by tag, as well as the
// synthetic Overall tag at the end.
func (s *Stats) AllTags() []*TagStats {
	slice := make([]*TagStats, 0, len(s.Tags)+1)
	for _, ts := range s.Tags {
		slice = append(slice, ts)
	}
	sort.Slice(slice, func(i, j int) bool {
		return slice[i].Tag < slice[j].Tag
	})
	slice = append(slice, s.Overall())
	return slice
}

//
//
//

// TagStats represents statistics for all traces with a specific tag. Ticks are
// raw counter values.
type TagStats struct {
	Tag          uint64 `json:"tag"`
	Overall      bool   `json:"overall,omitempty"`
	Count        int    `json:"count"`
	TotalTicks   uint64 `json:"total_ticks"`
	MinTicks     uint64 `json:"min_ticks"`
	MaxTicks     uint64 `json:"max_ticks"`
	FirstStart   uint64 `json:"first_start"`
	LastStop     uint64 `json:"last_stop"`
	BucketCounts []int  `json:"bucket_counts"`
}

// NewTagStats returns an empty tag stats for the given tag, and with the given
// bucketing.
func NewTagStats(tag uint64, bucketing []uint64) *TagStats {
	return &TagStats{
		Tag:          tag,
		BucketCounts: make([]int, len(bucketing)),
	}
}

// IsZero returns true if no traces have been observed.
func (ts *TagStats) IsZero() bool {
	return ts == nil || ts.Count == 0
}

// Observe a single trace. Bucket counts are cumulative: a trace is counted in
// every bucket whose threshold is less than or equal to its delta.
func (ts *TagStats) Observe(tr tsc.Triple, bucketing []uint64) {
	delta := tr.Delta()

	if ts.Count == 0 || delta < ts.MinTicks {
		ts.MinTicks = delta
	}
	if ts.Count == 0 || delta > ts.MaxTicks {
		ts.MaxTicks = delta
	}
	if ts.Count == 0 || tr.Start < ts.FirstStart {
		ts.FirstStart = tr.Start
	}
	if ts.Count == 0 || tr.Stop > ts.LastStop {
		ts.LastStop = tr.Stop
	}

	ts.Count++
	ts.TotalTicks += delta

	for i, bucket := range bucketing {
		if bucket > delta {
			break
		}
		ts.BucketCounts[i]++
	}
}

// MeanTicks returns the mean delta of the observed traces.
func (ts *TagStats) MeanTicks() float64 {
	if ts.IsZero() {
		return 0
	}
	return float64(ts.TotalTicks) / float64(ts.Count)
}

// Merge the other tag stats into this one.
func (ts *TagStats) Merge(other *TagStats) {
	if other.IsZero() {
		return
	}

	// Overall merges stats from different tags together, so we can't assert
	// that tags must be the same.

	if dst, src := len(ts.BucketCounts), len(other.BucketCounts); dst != src {
		panic(fmt.Errorf("bad merge: inconsistent buckets: %d vs. %d", dst, src))
	}

	if ts.IsZero() {
		ts.MinTicks = other.MinTicks
		ts.MaxTicks = other.MaxTicks
		ts.FirstStart = other.FirstStart
		ts.LastStop = other.LastStop
	} else {
		ts.MinTicks = min(ts.MinTicks, other.MinTicks)
		ts.MaxTicks = max(ts.MaxTicks, other.MaxTicks)
		ts.FirstStart = min(ts.FirstStart, other.FirstStart)
		ts.LastStop = max(ts.LastStop, other.LastStop)
	}

	ts.Count += other.Count
	ts.TotalTicks += other.TotalTicks

	for i := range ts.BucketCounts {
		ts.BucketCounts[i] += other.BucketCounts[i]
	}
}
