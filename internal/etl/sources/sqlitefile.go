package sources

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"recbench/internal/etl"
)

// ── SQLite File Source ──────────────────────────────────────
// Reads every row of one table from a local SQLite database file.
// Column names are used as field names.

// DefaultTable is the table read when no "table" option is given.
const DefaultTable = "records"

type sqliteFileSource struct{}

func init() { etl.RegisterSource(&sqliteFileSource{}) }

func (s *sqliteFileSource) Spec() etl.SourceSpec {
	return etl.SourceSpec{
		Type:       "sqlite_file",
		Label:      "SQLite File",
		Extensions: []string{".db", ".sqlite", ".sqlite3"},
		ConfigFields: []etl.ConfigField{
			{Key: etl.CfgFilePath, Label: "File Path", Required: true, Help: "Path to the SQLite database"},
			{Key: etl.CfgTable, Label: "Table", Required: false, Default: DefaultTable, Help: "Table holding one record per row"},
		},
	}
}

func (s *sqliteFileSource) Read(ctx context.Context, cfg etl.SourceConfig) ([]etl.Record, error) {
	path, cleanup, err := localDBFile(cfg.FilePath())
	if err != nil {
		return nil, err
	}
	defer cleanup()

	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", etl.ErrRead, err)
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", etl.ErrRead, err)
	}
	defer conn.Close()
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", etl.ErrRead, err)
	}

	table := cfg.Option(etl.CfgTable, DefaultTable)
	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+etl.QuoteIdent(table)+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("%w: query table %s: %w", etl.ErrParse, table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: read columns: %w", etl.ErrParse, err)
	}

	var records []etl.Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scan row: %w", etl.ErrParse, err)
		}
		data := make(map[string]any, len(cols))
		for i, c := range cols {
			data[c] = vals[i]
		}
		records = append(records, etl.Record{Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate rows: %w", etl.ErrParse, err)
	}
	if records == nil {
		records = []etl.Record{}
	}
	return records, nil
}

// readOnlyDSN builds a read-only SQLite URI for path. The path is
// percent-escaped so '#', '?' and '%' stay part of the file name.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := &url.URL{Scheme: "file", OmitHost: true, Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}

// localDBFile returns a path SQLite can open directly. Compressed
// databases are inflated into a temporary file removed by cleanup.
func localDBFile(path string) (string, func(), error) {
	noop := func() {}
	if !etl.IsCompressed(path) {
		if path == "" {
			return "", noop, fmt.Errorf("%w: filePath is required", etl.ErrRead)
		}
		if _, err := os.Stat(path); err != nil {
			return "", noop, fmt.Errorf("%w: %w", etl.ErrRead, err)
		}
		return path, noop, nil
	}

	data, err := etl.ReadFile(path)
	if err != nil {
		return "", noop, err
	}
	tmp, err := os.CreateTemp("", "recbench-*.db")
	if err != nil {
		return "", noop, fmt.Errorf("%w: create temp file: %w", etl.ErrRead, err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return "", noop, fmt.Errorf("%w: write temp file: %w", etl.ErrRead, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("%w: close temp file: %w", etl.ErrRead, err)
	}
	return tmp.Name(), cleanup, nil
}
