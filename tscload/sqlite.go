package tscload

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/peterbourgon/tsc"
)

// SQLiteLoader loads traces into a table in a SQLite database file.
//
// SQLite integers are signed, so counter values are stored as their int64 bit
// patterns. Values of 1<<63 or greater appear negative, and can be recovered
// by casting back to uint64.
type SQLiteLoader struct {
	db    *sql.DB
	table string
}

var _ Loader = (*SQLiteLoader)(nil)

// NewSQLiteLoader opens or creates the SQLite database at path, and creates the
// table if it doesn't exist.
func NewSQLiteLoader(ctx context.Context, path, table string) (*SQLiteLoader, error) {
	if err := ValidateTable(table); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	create := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			source TEXT    NOT NULL,
			tag    INTEGER NOT NULL,
			start  INTEGER NOT NULL,
			stop   INTEGER NOT NULL,
			delta  INTEGER NOT NULL
		)`, table)
	if _, err := db.ExecContext(ctx, create); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}

	return &SQLiteLoader{
		db:    db,
		table: table,
	}, nil
}

// Load implements Loader. Each batch is written in a single transaction.
func (l *SQLiteLoader) Load(ctx context.Context, source string, trs []tsc.Triple) (err error) {
	if len(trs) <= 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (source, tag, start, stop, delta) VALUES (?, ?, ?, ?, ?)`, l.table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, tr := range trs {
		if _, err := stmt.ExecContext(ctx, source, int64(tr.Tag), int64(tr.Start), int64(tr.Stop), int64(tr.Delta())); err != nil {
			return fmt.Errorf("insert trace %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Count returns the number of rows in the table for the given source, or for
// all sources if source is empty.
func (l *SQLiteLoader) Count(ctx context.Context, source string) (int, error) {
	var (
		query = fmt.Sprintf(`SELECT COUNT(*) FROM %s`, l.table)
		args  []any
	)
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}

	var n int
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count traces: %w", err)
	}

	return n, nil
}

// Traces returns all traces in the table for the given source, in insertion
// order.
func (l *SQLiteLoader) Traces(ctx context.Context, source string) ([]tsc.Triple, error) {
	rows, err := l.db.QueryContext(ctx, fmt.Sprintf(`SELECT tag, start, stop FROM %s WHERE source = ? ORDER BY rowid`, l.table), source)
	if err != nil {
		return nil, fmt.Errorf("query traces: %w", err)
	}
	defer rows.Close()

	var trs []tsc.Triple
	for rows.Next() {
		var tag, start, stop int64
		if err := rows.Scan(&tag, &start, &stop); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		trs = append(trs, tsc.Triple{Tag: uint64(tag), Start: uint64(start), Stop: uint64(stop)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traces: %w", err)
	}

	return trs, nil
}

// Close implements Loader.
func (l *SQLiteLoader) Close() error {
	return l.db.Close()
}
