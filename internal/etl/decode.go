package etl

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"recbench/internal/domain"
)

// ── Decode ─────────────────────────────────────────────────
// Strict conversion of raw rows into domain.Records.
// Every required field must be present with a value of the right type;
// extra fields are ignored.

// DecodeError reports the first row or field that failed to decode.
type DecodeError struct {
	Index  int    // zero-based row position in the input
	Field  string // empty when the row itself is malformed
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("record %d: field %q: %s", e.Index, e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrParse) match decode failures.
func (e *DecodeError) Unwrap() error { return ErrParse }

// Decode converts rows into records in the same order.
// An empty input yields an empty, non-nil slice.
func Decode(rows []Record) ([]domain.Record, error) {
	out := make([]domain.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeRow(i, row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRow(i int, row Record) (domain.Record, error) {
	var rec domain.Record
	if row.Data == nil {
		return rec, &DecodeError{Index: i, Reason: "not an object"}
	}

	vals := make(map[string]any, len(domain.PersonSchema))
	for _, f := range domain.PersonSchema {
		raw, ok := row.Data[f.Name]
		if !ok || raw == nil {
			return rec, &DecodeError{Index: i, Field: f.Name, Reason: "missing required field"}
		}
		v, err := coerce(raw, f.Type)
		if err != nil {
			return rec, &DecodeError{Index: i, Field: f.Name, Reason: err.Error()}
		}
		vals[f.Name] = v
	}

	age := vals[domain.FieldAge].(int64)
	if age < math.MinInt32 || age > math.MaxInt32 {
		return rec, &DecodeError{Index: i, Field: domain.FieldAge, Reason: fmt.Sprintf("value %d out of range", age)}
	}

	rec.ID = vals[domain.FieldID].(int64)
	rec.Name = vals[domain.FieldName].(string)
	rec.Age = int32(age)
	rec.City = vals[domain.FieldCity].(string)
	rec.Born = vals[domain.FieldBorn].(string)
	rec.Height = vals[domain.FieldHeight].(float64)
	rec.Weight = vals[domain.FieldWeight].(float64)
	return rec, nil
}

// coerce returns int64 for FieldInteger, float64 for FieldNumber and
// string for FieldText.
func coerce(v any, t domain.FieldType) (any, error) {
	switch t {
	case domain.FieldInteger:
		return toInt(v)
	case domain.FieldNumber:
		return toNumber(v)
	default:
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
		return nil, fmt.Errorf("expected text, got %s", describe(v))
	}
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("value %d out of range", n)
		}
		return int64(n), nil
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", n.String())
		}
		return integral(f)
	case float64:
		return integral(n)
	}
	return 0, fmt.Errorf("expected integer, got %s", describe(v))
}

// integral accepts floats with no fractional part, such as 25.0.
func integral(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("expected integer, got %v", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("value %v out of range", f)
	}
	return int64(f), nil
}

func toNumber(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", n.String())
		}
		f = parsed
	default:
		return 0, fmt.Errorf("expected number, got %s", describe(v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}

// ParseCell converts a text cell (CSV) into the Go value the field type
// expects, so CSV rows decode like any other source.
func ParseCell(s string, t domain.FieldType) (any, error) {
	switch t {
	case domain.FieldInteger:
		s = strings.TrimSpace(s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %q", s)
		}
		return integral(f)
	case domain.FieldNumber:
		s = strings.TrimSpace(s)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("expected number, got %q", s)
		}
		return f, nil
	default:
		return s, nil
	}
}

func describe(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case string, []byte:
		return "text"
	case map[string]any, map[any]any:
		return "object"
	case []any:
		return "array"
	case json.Number, float64, float32, int, int32, int64, uint64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
