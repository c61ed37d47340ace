package bench

import (
	"context"
	"errors"

	"recbench/internal/domain"
	"recbench/internal/etl"
	_ "recbench/internal/etl/sources" // register built-in sources
)

// DefaultInput is the input file read when none is configured.
const DefaultInput = "samples.json"

// Config selects the input of a run.
type Config struct {
	InputPath string           // defaults to DefaultInput
	Format    string           // source type such as "csv_file"; empty means detect from extension
	Options   etl.SourceConfig // extra source options, e.g. "table"
}

func (c Config) path() string {
	if c.InputPath == "" {
		return DefaultInput
	}
	return c.InputPath
}

// Load reads the whole input and decodes it into records, in file order.
// Zero records is a valid result.
func Load(ctx context.Context, cfg Config) ([]domain.Record, error) {
	path := cfg.path()

	src, err := resolveSource(cfg.Format, path)
	if err != nil {
		return nil, &Error{Kind: KindFormat, Op: "load", Path: path, Err: err}
	}

	srcCfg := etl.SourceConfig{}
	for k, v := range cfg.Options {
		srcCfg[k] = v
	}
	srcCfg[etl.CfgFilePath] = path

	rows, err := src.Read(ctx, srcCfg)
	if err != nil {
		return nil, classify(path, err)
	}

	records, err := etl.Decode(rows)
	if err != nil {
		return nil, &Error{Kind: KindFormat, Op: "load", Path: path, Err: err}
	}
	return records, nil
}

func resolveSource(format, path string) (etl.Source, error) {
	if format != "" {
		return etl.GetSource(format)
	}
	return etl.DetectSource(path)
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, etl.ErrParse):
		return &Error{Kind: KindFormat, Op: "load", Path: path, Err: err}
	default:
		return &Error{Kind: KindIO, Op: "load", Path: path, Err: err}
	}
}
