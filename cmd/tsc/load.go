package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/tsc"
	"github.com/peterbourgon/tsc/internal/tscutil"
	"github.com/peterbourgon/tsc/tscfile"
	"github.com/peterbourgon/tsc/tscload"
)

type loadConfig struct {
	*rootConfig

	db        string
	table     string
	batchSize int
	keepGoing bool
}

func (cfg *loadConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{ShortName: 0x0, LongName: "db" /*         */, Value: ffval.NewValue(&cfg.db) /*                                          */, Usage: "database: clickhouse://... DSN, or SQLite file (sqlite:PATH, *.db, *.sqlite)", Placeholder: "URI", NoDefault: true})
	fs.AddFlag(ff.FlagConfig{ShortName: 't', LongName: "table" /*      */, Value: ffval.NewValueDefault(&cfg.table, tscload.DefaultTable) /*         */, Usage: "table name, created if it doesn't exist", Placeholder: "NAME"})
	fs.AddFlag(ff.FlagConfig{ShortName: 'n', LongName: "batch-size" /* */, Value: ffval.NewValueDefault(&cfg.batchSize, tscload.DefaultBatchSize) /* */, Usage: "traces per insert batch"})
	fs.AddFlag(ff.FlagConfig{ShortName: 'k', LongName: "keep-going" /* */, Value: ffval.NewValue(&cfg.keepGoing) /*                                   */, Usage: "continue with the next file after an error", NoDefault: true})
}

func (cfg *loadConfig) Exec(ctx context.Context, args []string) error {
	if cfg.db == "" {
		return fmt.Errorf("--db is required")
	}

	if err := requireFiles(args); err != nil {
		return err
	}

	if err := tscload.ValidateTable(cfg.table); err != nil {
		return fmt.Errorf("--table: %w", err)
	}

	loader, err := tscload.Open(ctx, cfg.db, cfg.table)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := loader.Close(); err != nil {
			cfg.info.Printf("close database: %v", err)
		}
	}()

	cfg.debug.Printf("database: %s", cfg.db)
	cfg.debug.Printf("table: %s", cfg.table)
	cfg.debug.Printf("batch size: %d", cfg.batchSize)

	var g run.Group

	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(func() error {
			return cfg.loadFiles(ctx, loader, args)
		}, func(error) {
			cancel()
		})
	}

	{
		g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))
	}

	return g.Run()
}

func (cfg *loadConfig) loadFiles(ctx context.Context, loader tscload.Loader, paths []string) error {
	var (
		begin = time.Now()
		total int
		errs  []error
	)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := cfg.loadFile(ctx, loader, path)
		total += n
		switch {
		case err == nil:
			cfg.info.Printf("%s: loaded %d trace(s)", path, n)
		case cfg.keepGoing:
			cfg.info.Printf("%s: loaded %d trace(s), then error: %v", path, n, err)
			errs = append(errs, err)
		default:
			return err
		}
	}

	cfg.info.Printf("loaded %d trace(s) from %d file(s) in %s", total, len(paths), time.Since(begin).Truncate(time.Millisecond))

	if len(errs) > 0 {
		return fmt.Errorf("%d file(s) failed: %s", len(errs), tscutil.FlattenErrors(errs...))
	}

	return nil
}

func (cfg *loadConfig) loadFile(ctx context.Context, loader tscload.Loader, path string) (int, error) {
	f, err := cfg.fileFormat(path)
	if err != nil {
		return 0, err
	}

	fp, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open trace file: %w", err)
	}
	defer fp.Close()

	if fi, err := fp.Stat(); err == nil {
		cfg.debug.Printf("%s: format %s, size %s", path, f, tscutil.HumanizeBytes(fi.Size()))
	}

	decode := func(r io.Reader, fn func(tsc.Triple) error) error {
		return tscfile.Decode(r, f, fn)
	}

	return tscload.Copy(ctx, loader, filepath.Base(path), fp, decode, cfg.batchSize)
}
