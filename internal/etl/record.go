package etl

import "recbench/internal/domain"

// ── Record ─────────────────────────────────────────────────
// Common intermediate data format.
// All sources emit Records; Decode turns them into domain.Records.

// Field describes a single column in a dataset.
type Field struct {
	Name string           `json:"name"`
	Type domain.FieldType `json:"type"`
}

// Schema describes the shape of records coming from a source.
type Schema struct {
	Fields []Field `json:"fields"`
}

// FieldNames returns an ordered list of field names.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// TypeOf returns the declared type of the named field.
func (s *Schema) TypeOf(name string) (domain.FieldType, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return "", false
}

// PersonSchema is the schema every benchmark input must satisfy.
func PersonSchema() *Schema {
	fields := make([]Field, len(domain.PersonSchema))
	for i, f := range domain.PersonSchema {
		fields[i] = Field{Name: f.Name, Type: f.Type}
	}
	return &Schema{Fields: fields}
}

// Record is a single row of data as read from a source, before type checks.
type Record struct {
	Data map[string]any `json:"data"`
}

// FromDomain converts typed records back into rows, e.g. for writing samples.
func FromDomain(recs []domain.Record) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = Record{Data: r.Values()}
	}
	return out
}
