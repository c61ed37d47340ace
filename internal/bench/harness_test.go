package bench_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"recbench/internal/bench"
)

const scenarioJSON = `[
	{"id": 1, "name": "Ann", "age": 25, "city": "New York", "born": "01/02/1990", "height": 1.70, "weight": 60.0},
	{"id": 2, "name": "Bo", "age": 40, "city": "Lyon", "born": "03/04/1980", "height": 1.80, "weight": 80.0}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// ─────────────────────────────────────────────────────────────
// Harness.Run
// ─────────────────────────────────────────────────────────────

func TestHarness_EndToEnd(t *testing.T) {
	path := writeFile(t, "samples.json", scenarioJSON)
	sink := &bench.MockSink{}

	run, err := bench.New(sink).Run(context.Background(), bench.Config{InputPath: path})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if run.ID == "" {
		t.Error("expected a run ID")
	}
	if run.Records != 2 {
		t.Errorf("expected 2 records, got %d", run.Records)
	}

	in := run.Integers
	if in.Sum != 65 || in.Max != 40 || in.Min != 25 || in.InRange != 1 {
		t.Errorf("unexpected integer result %+v", in)
	}

	st := run.Strings
	if st.SubstringCount != 1 || st.Concatenated != "Ann Bo " {
		t.Errorf("unexpected string result %+v", st)
	}
	if !reflect.DeepEqual(st.Reversed, []string{"nnA", "oB"}) {
		t.Errorf("expected [nnA oB], got %v", st.Reversed)
	}

	fl := run.Floats
	if !near(fl.AvgHeight, 1.75) || !near(fl.AvgWeight, 70.0) || fl.MaxHeight != 1.80 || fl.MinWeight != 60.0 {
		t.Errorf("unexpected float result %+v", fl)
	}
	if !near(fl.ScaledHeights[0], 1.87) || !near(fl.ScaledHeights[1], 1.98) {
		t.Errorf("expected scaled heights [1.87 1.98], got %v", fl.ScaledHeights)
	}

	want := []bench.Stage{bench.StageLoad, bench.StageString, bench.StageInteger, bench.StageFloat}
	if got := sink.Stages(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected stages %v, got %v", want, got)
	}
	for _, o := range sink.Observations {
		if o.RunID != run.ID {
			t.Errorf("observation %s has run ID %q, expected %q", o.Stage, o.RunID, run.ID)
		}
	}
	if len(run.Timings) != 4 {
		t.Errorf("expected 4 timings on the run, got %d", len(run.Timings))
	}
}

func TestHarness_EmptyCollection(t *testing.T) {
	path := writeFile(t, "empty.json", "[]")
	sink := &bench.MockSink{}

	records, err := bench.Load(context.Background(), bench.Config{InputPath: path})
	if err != nil {
		t.Fatalf("loading an empty file should succeed, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected 0 records, got %d", len(records))
	}

	_, err = bench.New(sink).Run(context.Background(), bench.Config{InputPath: path})
	if !errors.Is(err, bench.ErrEmptyCollection) {
		t.Fatalf("expected ErrEmptyCollection, got %v", err)
	}
	want := []bench.Stage{bench.StageLoad, bench.StageString}
	if got := sink.Stages(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected stages %v before the failure, got %v", want, got)
	}
}

func TestHarness_CancelledContext(t *testing.T) {
	path := writeFile(t, "samples.json", scenarioJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bench.New(nil).Run(ctx, bench.Config{InputPath: path})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// Load errors
// ─────────────────────────────────────────────────────────────

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    error
	}{
		{"malformed json", "bad.json", `[{"id": 1,`, bench.ErrFormat},
		{"not an array", "obj.json", `{"id": 1}`, bench.ErrFormat},
		{"trailing data", "trail.json", `[] []`, bench.ErrFormat},
		{"missing field", "missing.json", `[{"id": 1, "name": "Ann", "age": 25, "city": "X", "born": "b", "height": 1.7}]`, bench.ErrFormat},
		{"non-numeric age", "age.json", `[{"id": 1, "name": "Ann", "age": "old", "city": "X", "born": "b", "height": 1.7, "weight": 60}]`, bench.ErrFormat},
		{"fractional id", "id.json", `[{"id": 1.5, "name": "Ann", "age": 25, "city": "X", "born": "b", "height": 1.7, "weight": 60}]`, bench.ErrFormat},
		{"numeric name", "name.json", `[{"id": 1, "name": 7, "age": 25, "city": "X", "born": "b", "height": 1.7, "weight": 60}]`, bench.ErrFormat},
		{"null city", "city.json", `[{"id": 1, "name": "Ann", "age": 25, "city": null, "born": "b", "height": 1.7, "weight": 60}]`, bench.ErrFormat},
		{"element not object", "elem.json", `[42]`, bench.ErrFormat},
		{"unknown extension", "samples.txt", `[]`, bench.ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := bench.Load(context.Background(), bench.Config{InputPath: path})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !strings.Contains(err.Error(), string(bench.KindFormat)) {
				t.Errorf("expected diagnostic to name the kind, got %q", err.Error())
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	_, err := bench.Load(context.Background(), bench.Config{InputPath: path})
	if !errors.Is(err, bench.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the underlying cause to be kept, got %v", err)
	}
	if kind, _ := bench.KindOf(err); kind != bench.KindIO {
		t.Errorf("expected kind %s, got %s", bench.KindIO, kind)
	}
}

func TestLoad_ExtraFieldsIgnored(t *testing.T) {
	path := writeFile(t, "extra.json", `[{"id": 7, "name": "Ann", "age": 25.0, "city": "X", "born": "b", "height": 2, "weight": 60.5, "email": "a@b.c"}]`)
	records, err := bench.Load(context.Background(), bench.Config{InputPath: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := records[0]
	if r.ID != 7 || r.Age != 25 || r.Height != 2 || r.Weight != 60.5 {
		t.Errorf("unexpected record %+v", r)
	}
}

func TestLoad_ExplicitFormat(t *testing.T) {
	path := writeFile(t, "samples.data", scenarioJSON)
	records, err := bench.Load(context.Background(), bench.Config{InputPath: path, Format: "json_file"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 || records[0].Name != "Ann" || records[1].Name != "Bo" {
		t.Errorf("expected records in file order, got %+v", records)
	}
}

// ─────────────────────────────────────────────────────────────
// Reporting
// ─────────────────────────────────────────────────────────────

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500.00ns"},
		{1500 * time.Nanosecond, "1.50µs"},
		{12346 * time.Microsecond, "12.35ms"},
		{2500 * time.Millisecond, "2.50s"},
		{999 * time.Nanosecond, "999.00ns"},
		{1000 * time.Nanosecond, "1.00µs"},
		{999994 * time.Nanosecond, "999.99µs"},
		{999999 * time.Nanosecond, "1.00ms"},
		{999999999 * time.Nanosecond, "1.00s"},
		{90 * time.Second, "90.00s"},
	}
	for _, tt := range tests {
		if got := bench.FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v): expected %q, got %q", tt.d, tt.want, got)
		}
	}
}

func TestConsoleReporter_Lines(t *testing.T) {
	path := writeFile(t, "samples.json", scenarioJSON)
	var buf bytes.Buffer

	if _, err := bench.New(bench.NewConsoleReporter(&buf)).Run(context.Background(), bench.Config{InputPath: path}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	prefixes := []string{"File loading took ", "String operations took ", "Integer operations took ", "Float operations took "}
	if len(lines) != len(prefixes) {
		t.Fatalf("expected %d lines, got %d: %q", len(prefixes), len(lines), buf.String())
	}
	for i, p := range prefixes {
		if !strings.HasPrefix(lines[i], p) {
			t.Errorf("line %d: expected prefix %q, got %q", i, p, lines[i])
		}
	}
}
