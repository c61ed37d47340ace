package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"recbench/internal/etl"
)

// ── JSON File Source ────────────────────────────────────────
// Reads records from a local JSON file holding an array of objects.

type jsonFileSource struct{}

func init() { etl.RegisterSource(&jsonFileSource{}) }

func (s *jsonFileSource) Spec() etl.SourceSpec {
	return etl.SourceSpec{
		Type:       "json_file",
		Label:      "JSON File",
		Extensions: []string{".json"},
		ConfigFields: []etl.ConfigField{
			{Key: etl.CfgFilePath, Label: "File Path", Required: true, Help: "Path to the JSON file"},
			{Key: "dataPath", Label: "Data Path", Required: false, Help: "Dot-separated path to the array (e.g., 'data.items'). Leave empty if root is an array."},
		},
	}
}

func (s *jsonFileSource) Read(ctx context.Context, cfg etl.SourceConfig) ([]etl.Record, error) {
	data, err := etl.ReadFile(cfg.FilePath())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// UseNumber keeps integers exact so ids and ages can be checked for
	// fractional parts later.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: parse json: %w", etl.ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse json: unexpected data after top-level value", etl.ErrParse)
	}

	// Navigate to dataPath if specified.
	if dataPath := cfg.Option("dataPath", ""); dataPath != "" {
		raw, err = navigatePath(raw, dataPath)
		if err != nil {
			return nil, err
		}
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: parse json: top-level value is not an array", etl.ErrParse)
	}
	return toRecords(items), nil
}

// navigatePath walks a dot-separated path into nested objects.
func navigatePath(obj any, path string) (any, error) {
	current := obj
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: invalid data path: %q not found", etl.ErrParse, part)
		}
		current, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("%w: invalid data path: %q not found", etl.ErrParse, part)
		}
	}
	return current, nil
}

// toRecords keeps one row per array element. Non-object elements become
// rows without data so decoding reports their position.
func toRecords(items []any) []etl.Record {
	records := make([]etl.Record, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]any)
		records = append(records, etl.Record{Data: m})
	}
	return records
}
