package tscstats

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/tsc/internal/tscutil"
)

// WriteTable writes a human-readable table of the stats to w, one row per
// tag plus an overall row, using names to label tags. Bucket columns show the
// cumulative count of traces whose delta is at least the bucket threshold.
func (s *Stats) WriteTable(w io.Writer, names Names) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	header := []string{"TAG", "COUNT", "MIN", "MEAN", "MAX"}
	for _, bucket := range s.Bucketing {
		header = append(header, ">="+tscutil.HumanizeTicks(bucket))
	}
	fmt.Fprintf(tw, "%s\t\n", strings.Join(header, "\t"))

	for _, ts := range s.AllTags() {
		name := names.Name(ts.Tag)
		if ts.Overall {
			name = "overall"
		}

		row := []string{
			name,
			fmt.Sprint(ts.Count),
			tscutil.HumanizeTicks(ts.MinTicks),
			tscutil.HumanizeTicks(ts.MeanTicks()),
			tscutil.HumanizeTicks(ts.MaxTicks),
		}
		for _, n := range ts.BucketCounts {
			row = append(row, fmt.Sprint(n))
		}
		fmt.Fprintf(tw, "%s\t\n", strings.Join(row, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write stats table: %w", err)
	}

	return nil
}
