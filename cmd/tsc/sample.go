package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/tsc"
	"github.com/peterbourgon/tsc/tscstats"
)

// Tags used by sample.
const (
	sampleTagSpan = iota + 1
	sampleTagDo
	sampleTagInsert
)

var sampleNames = tscstats.Names{
	sampleTagSpan:   "span",
	sampleTagDo:     "do",
	sampleTagInsert: "insert",
}

type sampleConfig struct {
	*rootConfig

	count   int
	dir     string
	work    int
	summary bool
}

func (cfg *sampleConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{ShortName: 'n', LongName: "count" /*   */, Value: ffval.NewValueDefault(&cfg.count, 100_000) /*  */, Usage: "number of iterations, each recording three traces"})
	fs.AddFlag(ff.FlagConfig{ShortName: 'd', LongName: "dir" /*     */, Value: ffval.NewValueDefault(&cfg.dir, os.TempDir()) /* */, Usage: "directory for exported files", Placeholder: "DIR"})
	fs.AddFlag(ff.FlagConfig{ShortName: 'w', LongName: "work" /*    */, Value: ffval.NewValueDefault(&cfg.work, 100) /*      */, Usage: "loop iterations of busy work inside each span"})
	fs.AddFlag(ff.FlagConfig{ShortName: 's', LongName: "summary" /* */, Value: ffval.NewValue(&cfg.summary) /*              */, Usage: "print per-tag stats of the recorded traces", NoDefault: true})
}

func (cfg *sampleConfig) Exec(ctx context.Context, args []string) error {
	if !tsc.Enabled {
		return errors.New("tracing is disabled in this build (tsc_off)")
	}

	if cfg.count <= 0 {
		return fmt.Errorf("--count must be positive")
	}

	cfg.info.Printf("counter source: %s", tsc.CounterSource)
	cfg.info.Printf("fenced: %v", tsc.Fenced)
	cfg.debug.Printf("capacity: %d", tsc.Capacity)
	cfg.debug.Printf("fixed storage: %v", tsc.FixedStorage)

	var g run.Group

	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			return cfg.record(ctx)
		}, func(error) {
			cancel()
		})
	}

	{
		g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))
	}

	return g.Run()
}

func (cfg *sampleConfig) record(ctx context.Context) error {
	buf, unpin := tsc.Pin()
	defer unpin()

	var sink uint64
	work := func() {
		for i := 0; i < cfg.work; i++ {
			sink += uint64(i) * sink
		}
	}

	for i := 0; i < cfg.count; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		span := buf.Start(sampleTagSpan)
		work()
		span.End()

		buf.Do(sampleTagDo, work)

		start := tsc.Counter()
		work()
		buf.Insert(sampleTagInsert, start, tsc.Counter())
	}

	cfg.debug.Printf("recorded: %d, live: %d, cursor: %d", 3*cfg.count, buf.Len(), buf.Cursor())
	cfg.trace.Printf("sink: %d", sink)

	for _, f := range []tsc.Format{tsc.FormatText, tsc.FormatBinary} {
		path, err := buf.WriteFile(cfg.dir, f)
		if err != nil {
			return fmt.Errorf("export %s: %w", f, err)
		}
		fmt.Fprintln(cfg.stdout, path)
	}

	if cfg.summary {
		s := tscstats.NewStats(tscstats.DefaultBucketing)
		buf.Walk(func(tr tsc.Triple) error {
			s.Observe(tr)
			return nil
		})
		if err := s.WriteTable(cfg.stdout, sampleNames); err != nil {
			return err
		}
	}

	return nil
}
