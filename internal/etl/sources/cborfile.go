package sources

import (
	"context"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"recbench/internal/etl"
)

// ── CBOR File Source ────────────────────────────────────────
// Reads records from a CBOR file holding an array of text-keyed maps.

type cborFileSource struct{}

func init() { etl.RegisterSource(&cborFileSource{}) }

func (s *cborFileSource) Spec() etl.SourceSpec {
	return etl.SourceSpec{
		Type:       "cbor_file",
		Label:      "CBOR File",
		Extensions: []string{".cbor"},
		ConfigFields: []etl.ConfigField{
			{Key: etl.CfgFilePath, Label: "File Path", Required: true, Help: "Path to the CBOR file"},
		},
	}
}

func (s *cborFileSource) Read(ctx context.Context, cfg etl.SourceConfig) ([]etl.Record, error) {
	data, err := etl.ReadFile(cfg.FilePath())
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := cbor.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: parse cbor: %w", etl.ErrParse, err)
	}

	records := make([]etl.Record, len(items))
	for i, m := range items {
		records[i] = etl.Record{Data: m}
	}
	return records, nil
}
