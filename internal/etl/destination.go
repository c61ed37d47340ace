package etl

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	_ "modernc.org/sqlite"

	"recbench/internal/domain"
)

// ── Destination ────────────────────────────────────────────
// A Destination writes records into an output file that the matching
// source can read back. Used to produce benchmark inputs.

// Destination writes records to a target file, replacing it.
type Destination interface {
	Write(ctx context.Context, path string, schema *Schema, records []Record) (int, error)
}

// DestinationFor picks a writer from the file extension of path.
func DestinationFor(path string) (Destination, error) {
	switch ext := strings.ToLower(filepath.Ext(StripCompression(path))); ext {
	case ".json":
		return &JSONFileWriter{}, nil
	case ".csv":
		return &CSVFileWriter{}, nil
	case ".cbor":
		return &CBORFileWriter{}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteFileWriter{Table: "records"}, nil
	default:
		return nil, fmt.Errorf("no destination handles %q files", ext)
	}
}

// ── JSON ───────────────────────────────────────────────────

// JSONFileWriter writes an indented array of objects with keys in schema order.
type JSONFileWriter struct{}

type orderedRow struct {
	fields []string
	data   map[string]any
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(f)
		v, err := json.Marshal(r.data[f])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (w *JSONFileWriter) Write(ctx context.Context, path string, schema *Schema, records []Record) (int, error) {
	fields := schema.FieldNames()
	rows := make([]orderedRow, len(records))
	for i, rec := range records {
		rows[i] = orderedRow{fields: fields, data: rec.Data}
	}

	data, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		return 0, fmt.Errorf("encode json: %w", err)
	}
	if err := WriteFile(path, data); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ── CSV ────────────────────────────────────────────────────

// CSVFileWriter writes a header row followed by one row per record.
type CSVFileWriter struct{}

func (w *CSVFileWriter) Write(ctx context.Context, path string, schema *Schema, records []Record) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	fields := schema.FieldNames()
	if err := cw.Write(fields); err != nil {
		return 0, fmt.Errorf("encode csv: %w", err)
	}
	row := make([]string, len(fields))
	for _, rec := range records {
		for i, f := range fields {
			row[i] = formatCell(rec.Data[f])
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("encode csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("encode csv: %w", err)
	}

	if err := WriteFile(path, buf.Bytes()); err != nil {
		return 0, err
	}
	return len(records), nil
}

func formatCell(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(n, 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	default:
		return fmt.Sprint(v)
	}
}

// ── CBOR ───────────────────────────────────────────────────

// CBORFileWriter writes an array of text-keyed maps.
type CBORFileWriter struct{}

func (w *CBORFileWriter) Write(ctx context.Context, path string, schema *Schema, records []Record) (int, error) {
	items := make([]map[string]any, len(records))
	for i, rec := range records {
		items[i] = rec.Data
	}
	data, err := cbor.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("encode cbor: %w", err)
	}
	if err := WriteFile(path, data); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ── SQLite ─────────────────────────────────────────────────

// SQLiteFileWriter creates a fresh database with one table of records.
type SQLiteFileWriter struct {
	Table string
}

func (w *SQLiteFileWriter) Write(ctx context.Context, path string, schema *Schema, records []Record) (int, error) {
	target := path
	if IsCompressed(path) {
		tmp, err := os.CreateTemp("", "recbench-*.db")
		if err != nil {
			return 0, fmt.Errorf("create temp file: %w", err)
		}
		tmp.Close()
		target = tmp.Name()
		defer os.Remove(target)
	}
	// Replace semantics: start from an empty file.
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("clear target: %w", err)
	}

	written, err := w.writeDB(ctx, target, schema, records)
	if err != nil {
		return 0, err
	}

	if IsCompressed(path) {
		data, err := os.ReadFile(target)
		if err != nil {
			return 0, fmt.Errorf("read temp database: %w", err)
		}
		if err := WriteFile(path, data); err != nil {
			return 0, err
		}
	}
	return written, nil
}

func (w *SQLiteFileWriter) writeDB(ctx context.Context, path string, schema *Schema, records []Record) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("open sqlite: %w", err)
	}
	defer conn.Close()
	conn.SetMaxOpenConns(1)

	fields := schema.FieldNames()
	cols := make([]string, len(schema.Fields))
	marks := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = QuoteIdent(f.Name) + " " + sqlType(f.Type) + " NOT NULL"
		marks[i] = "?"
	}

	table := QuoteIdent(w.Table)
	if _, err := conn.ExecContext(ctx, "CREATE TABLE "+table+" ("+strings.Join(cols, ", ")+")"); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = QuoteIdent(f)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+table+" ("+strings.Join(quoted, ", ")+") VALUES ("+strings.Join(marks, ", ")+")")
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(fields))
	for i, rec := range records {
		for j, f := range fields {
			args[j] = rec.Data[f]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return i, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

func sqlType(t domain.FieldType) string {
	switch t {
	case domain.FieldInteger:
		return "INTEGER"
	case domain.FieldNumber:
		return "REAL"
	default:
		return "TEXT"
	}
}

// QuoteIdent quotes a SQL identifier for SQLite.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
