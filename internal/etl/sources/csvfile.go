package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"recbench/internal/etl"
)

// ── CSV File Source ─────────────────────────────────────────
// Reads records from a local CSV file. The first row must name the
// columns; cells are converted according to the person schema.

type csvFileSource struct{}

func init() { etl.RegisterSource(&csvFileSource{}) }

func (s *csvFileSource) Spec() etl.SourceSpec {
	return etl.SourceSpec{
		Type:       "csv_file",
		Label:      "CSV File",
		Extensions: []string{".csv"},
		ConfigFields: []etl.ConfigField{
			{Key: etl.CfgFilePath, Label: "File Path", Required: true, Help: "Path to the CSV file"},
			{Key: "delimiter", Label: "Delimiter", Required: false, Default: ",", Help: "Column delimiter (default: comma)"},
		},
	}
}

func (s *csvFileSource) Read(ctx context.Context, cfg etl.SourceConfig) ([]etl.Record, error) {
	headers, rows, err := readCSVFile(cfg)
	if err != nil {
		return nil, err
	}

	schema := etl.PersonSchema()
	records := make([]etl.Record, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data := make(map[string]any, len(headers))
		for j, h := range headers {
			if j >= len(row) {
				break
			}
			typ, known := schema.TypeOf(h)
			if !known {
				data[h] = row[j]
				continue
			}
			v, err := etl.ParseCell(row[j], typ)
			if err != nil {
				return nil, &etl.DecodeError{Index: i, Field: h, Reason: err.Error()}
			}
			data[h] = v
		}
		records = append(records, etl.Record{Data: data})
	}
	return records, nil
}

func readCSVFile(cfg etl.SourceConfig) ([]string, [][]string, error) {
	data, err := etl.ReadFile(cfg.FilePath())
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))

	// Configure delimiter.
	if delim := cfg.Option("delimiter", ""); len(delim) > 0 {
		reader.Comma = rune(delim[0])
	}
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: parse csv: missing header row", etl.ErrParse)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parse csv: %w", etl.ErrParse, err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parse csv: %w", etl.ErrParse, err)
	}
	return headers, rows, nil
}
