package domain

// FieldType defines the value type a record field must decode to.
type FieldType string

const (
	FieldInteger FieldType = "integer"
	FieldNumber  FieldType = "number"
	FieldText    FieldType = "text"
)

// Field names of a Record as they appear in input files.
const (
	FieldID     = "id"
	FieldName   = "name"
	FieldAge    = "age"
	FieldCity   = "city"
	FieldBorn   = "born"
	FieldHeight = "height"
	FieldWeight = "weight"
)

// Record is one person row of the benchmark input.
// Born is kept as opaque text and never parsed as a date.
type Record struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Age    int32   `json:"age"`
	City   string  `json:"city"`
	Born   string  `json:"born"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// PersonField describes one required field of a Record.
type PersonField struct {
	Name string
	Type FieldType
}

// PersonSchema lists the required fields of a Record in file order.
var PersonSchema = []PersonField{
	{Name: FieldID, Type: FieldInteger},
	{Name: FieldName, Type: FieldText},
	{Name: FieldAge, Type: FieldInteger},
	{Name: FieldCity, Type: FieldText},
	{Name: FieldBorn, Type: FieldText},
	{Name: FieldHeight, Type: FieldNumber},
	{Name: FieldWeight, Type: FieldNumber},
}

// Values returns the record's fields keyed by their file names.
func (r Record) Values() map[string]any {
	return map[string]any{
		FieldID:     r.ID,
		FieldName:   r.Name,
		FieldAge:    int64(r.Age),
		FieldCity:   r.City,
		FieldBorn:   r.Born,
		FieldHeight: r.Height,
		FieldWeight: r.Weight,
	}
}
