package models

import "fmt"

// ValueKind tags the variant held by a FieldValue.
type ValueKind int

const (
	ValueNumber ValueKind = iota
	ValueLabel
)

// FieldValue is a tagged variant for a single raw input field. Raw records
// arrive loosely typed (JSON maps, CLI strings); they are converted into
// FieldValues at the boundary so the rest of the pipeline never inspects
// dynamic shapes again.
type FieldValue struct {
	Kind  ValueKind
	Num   float64
	Label string
}

// Number creates a numeric field value.
func Number(v float64) FieldValue {
	return FieldValue{Kind: ValueNumber, Num: v}
}

// Label creates a categorical field value.
func Label(s string) FieldValue {
	return FieldValue{Kind: ValueLabel, Label: s}
}

func (v FieldValue) String() string {
	if v.Kind == ValueNumber {
		return fmt.Sprintf("%g", v.Num)
	}
	return v.Label
}

// EmployeeRecord is a raw, possibly partial employee record. Fields absent
// from the map are filled from the schema's default table during
// normalization; a required field with no default fails the request.
type EmployeeRecord struct {
	Name   string
	Fields map[string]FieldValue
}

// NewEmployeeRecord creates an empty record for the named employee.
func NewEmployeeRecord(name string) EmployeeRecord {
	return EmployeeRecord{Name: name, Fields: make(map[string]FieldValue)}
}

// RecordFromMap converts a loosely typed field map (for example a decoded
// JSON body) into a tagged EmployeeRecord. JSON numbers arrive as float64;
// everything else is treated as a categorical label.
func RecordFromMap(name string, raw map[string]interface{}) EmployeeRecord {
	rec := NewEmployeeRecord(name)
	for field, value := range raw {
		switch v := value.(type) {
		case float64:
			rec.Fields[field] = Number(v)
		case int:
			rec.Fields[field] = Number(float64(v))
		case string:
			rec.Fields[field] = Label(v)
		default:
			rec.Fields[field] = Label(fmt.Sprintf("%v", v))
		}
	}
	return rec
}
