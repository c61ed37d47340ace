package etl_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"recbench/internal/domain"
	"recbench/internal/etl"
)

func validRow() map[string]any {
	return map[string]any{
		"id":     json.Number("1"),
		"name":   "Ann",
		"age":    json.Number("25"),
		"city":   "New York",
		"born":   "01/02/1990",
		"height": json.Number("1.70"),
		"weight": json.Number("60.0"),
	}
}

// ─────────────────────────────────────────────────────────────
// Decode
// ─────────────────────────────────────────────────────────────

func TestDecode_Valid(t *testing.T) {
	recs, err := etl.Decode([]etl.Record{{Data: validRow()}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := domain.Record{ID: 1, Name: "Ann", Age: 25, City: "New York", Born: "01/02/1990", Height: 1.70, Weight: 60.0}
	if recs[0] != want {
		t.Errorf("expected %+v, got %+v", want, recs[0])
	}
}

func TestDecode_Empty(t *testing.T) {
	recs, err := etl.Decode(nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", recs)
	}
}

func TestDecode_NativeTypes(t *testing.T) {
	// Shapes produced by the CBOR and SQLite sources.
	row := map[string]any{
		"id": uint64(9), "name": []byte("Bo"), "age": int64(40), "city": "Lyon",
		"born": "x", "height": int64(2), "weight": float64(80),
	}
	recs, err := etl.Decode([]etl.Record{{Data: row}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if recs[0].ID != 9 || recs[0].Name != "Bo" || recs[0].Height != 2 {
		t.Errorf("unexpected record %+v", recs[0])
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		drop  bool
	}{
		{"missing id", "id", nil, true},
		{"missing weight", "weight", nil, true},
		{"null born", "born", nil, false},
		{"text age", "age", "25", false},
		{"fractional age", "age", json.Number("25.5"), false},
		{"age overflow", "age", json.Number("3000000000"), false},
		{"bool height", "height", true, false},
		{"nan weight", "weight", math.NaN(), false},
		{"inf height", "height", math.Inf(1), false},
		{"number name", "name", json.Number("3"), false},
		{"object city", "city", map[string]any{"name": "Lyon"}, false},
		{"huge id", "id", uint64(math.MaxUint64), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			if tt.drop {
				delete(row, tt.field)
			} else {
				row[tt.field] = tt.value
			}
			good := etl.Record{Data: validRow()}

			_, err := etl.Decode([]etl.Record{good, {Data: row}})
			if !errors.Is(err, etl.ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var de *etl.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
			if de.Index != 1 || de.Field != tt.field {
				t.Errorf("expected record 1 field %q, got record %d field %q", tt.field, de.Index, de.Field)
			}
		})
	}
}

func TestDecode_NotAnObject(t *testing.T) {
	_, err := etl.Decode([]etl.Record{{Data: nil}})
	var de *etl.DecodeError
	if !errors.As(err, &de) || de.Index != 0 || de.Field != "" {
		t.Fatalf("expected row-level DecodeError, got %v", err)
	}
}

// ─────────────────────────────────────────────────────────────
// ParseCell
// ─────────────────────────────────────────────────────────────

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		typ     domain.FieldType
		want    any
		wantErr bool
	}{
		{"42", domain.FieldInteger, int64(42), false},
		{" 42 ", domain.FieldInteger, int64(42), false},
		{"42.0", domain.FieldInteger, int64(42), false},
		{"42.5", domain.FieldInteger, nil, true},
		{"abc", domain.FieldInteger, nil, true},
		{"1.75", domain.FieldNumber, 1.75, false},
		{"x", domain.FieldNumber, nil, true},
		{" New York ", domain.FieldText, " New York ", false},
	}
	for _, tt := range tests {
		got, err := etl.ParseCell(tt.in, tt.typ)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCell(%q, %s): unexpected error state %v", tt.in, tt.typ, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseCell(%q, %s): expected %v (%T), got %v (%T)", tt.in, tt.typ, tt.want, tt.want, got, got)
		}
	}
}

// ─────────────────────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────────────────────

func TestDestinationFor(t *testing.T) {
	for _, p := range []string{"a.json", "a.csv", "a.cbor", "a.db", "a.sqlite", "a.json.zst", "A.JSON"} {
		if _, err := etl.DestinationFor(p); err != nil {
			t.Errorf("DestinationFor(%q): %v", p, err)
		}
	}
	if _, err := etl.DestinationFor("a.txt"); err == nil {
		t.Error("expected an error for .txt")
	}
}

func TestStripCompression(t *testing.T) {
	if got := etl.StripCompression("dir/samples.json.zst"); got != "dir/samples.json" {
		t.Errorf("expected dir/samples.json, got %q", got)
	}
	if got := etl.StripCompression("samples.json"); got != "samples.json" {
		t.Errorf("expected samples.json, got %q", got)
	}
}
