// Package tscload loads decoded traces into databases, for analysis with SQL.
// SQLite and ClickHouse are supported.
package tscload

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/peterbourgon/tsc"
)

// Loader writes batches of traces to a table.
type Loader interface {
	// Load writes the traces to the table, tagged with the source they were
	// decoded from, typically a file path. Load is called with batches, and
	// each batch is written atomically where the database allows it.
	Load(ctx context.Context, source string, trs []tsc.Triple) error

	// Close releases the connection to the database.
	Close() error
}

// DefaultTable is the table name used when none is given.
const DefaultTable = "tsc_traces"

// DefaultBatchSize is the number of traces per Load call made by Copy.
const DefaultBatchSize = 100_000

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTable returns an error if the table name isn't a plain SQL
// identifier. Table names are interpolated into statements, so this is
// mandatory.
func ValidateTable(table string) error {
	if !tableNameRe.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// Open returns a loader for the database identified by uri, creating the table
// if it doesn't already exist. URIs with a clickhouse:// scheme are ClickHouse
// DSNs. URIs with a sqlite: or file: prefix, or a .db, .sqlite, or .sqlite3
// extension, are SQLite database files.
func Open(ctx context.Context, uri, table string) (Loader, error) {
	if table == "" {
		table = DefaultTable
	}

	if err := ValidateTable(table); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(uri, "clickhouse://"):
		return NewClickHouseLoader(ctx, uri, table)

	case strings.HasPrefix(uri, "sqlite:"):
		return NewSQLiteLoader(ctx, strings.TrimPrefix(uri, "sqlite:"), table)

	case strings.HasPrefix(uri, "file:"),
		strings.HasSuffix(uri, ".db"),
		strings.HasSuffix(uri, ".sqlite"),
		strings.HasSuffix(uri, ".sqlite3"):
		return NewSQLiteLoader(ctx, uri, table)

	default:
		return nil, fmt.Errorf("%s: unsupported database URI", uri)
	}
}

// DecodeFunc decodes traces from a reader, calling fn for each of them. The
// decoders in package tscfile have this signature.
type DecodeFunc func(r io.Reader, fn func(tsc.Triple) error) error

// Copy decodes traces from r and loads them via the loader, in batches of the
// given size. It returns the number of traces loaded. Unused slots, i.e.
// traces with a stop of zero, are skipped.
func Copy(ctx context.Context, dst Loader, source string, r io.Reader, decode DecodeFunc, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var (
		batch = make([]tsc.Triple, 0, min(batchSize, 4096))
		total int
	)

	flush := func() error {
		if len(batch) <= 0 {
			return nil
		}
		if err := dst.Load(ctx, source, batch); err != nil {
			return fmt.Errorf("load batch at trace %d: %w", total, err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	if err := decode(r, func(tr tsc.Triple) error {
		if tr.IsZero() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		batch = append(batch, tr)
		if len(batch) >= batchSize {
			return flush()
		}
		return nil
	}); err != nil {
		return total, fmt.Errorf("%s: %w", source, err)
	}

	if err := flush(); err != nil {
		return total, fmt.Errorf("%s: %w", source, err)
	}

	return total, nil
}
