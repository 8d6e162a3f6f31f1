// Package schema is the registry for the offline-trained model artifacts:
// the ordered feature-column list, fitted scaler parameters, classifier
// coefficients, and the raw-field configuration (vocabularies, defaults).
// The schema is loaded once at process start and is immutable afterwards,
// so concurrent readers need no locking.
package schema

import (
	"attrition-advisor/internal/models"
)

// Field types in the feature configuration.
const (
	FieldNumber = "number"
	FieldChoice = "choice"
)

// Option maps a human-readable categorical label to the one-hot column the
// trained encoder produced for it. Column is empty for labels the encoder
// dropped; such labels encode as all zeros, which is valid, not an error.
type Option struct {
	Label  string
	Column string
}

// Field describes one raw input field of an employee record.
type Field struct {
	Name     string
	Type     string
	Question string
	Required bool
	Default  *models.FieldValue
	Min      *float64
	Max      *float64
	Options  []Option
}

// ColumnFor looks up the one-hot column for a label. The second return
// reports whether the label exists in the vocabulary at all; a true result
// with an empty column means the label was dropped by the encoder.
func (f *Field) ColumnFor(label string) (string, bool) {
	for _, opt := range f.Options {
		if opt.Label == label {
			return opt.Column, true
		}
	}
	return "", false
}

// Labels returns the vocabulary labels in declared order.
func (f *Field) Labels() []string {
	out := make([]string, len(f.Options))
	for i, opt := range f.Options {
		out[i] = opt.Label
	}
	return out
}

// FeatureSchema is the canonical, immutable view of the model artifacts.
// Means, Scales and Coefficients align index-for-index with Columns.
type FeatureSchema struct {
	Version      string
	Fields       []Field
	Columns      []string
	Means        []float64
	Scales       []float64
	Coefficients []float64
	Intercept    float64

	colIndex    map[string]int
	fieldIndex  map[string]int
	labelByCol  map[string]colOrigin
	numericCols map[string]string // column -> field name
}

type colOrigin struct {
	field string
	label string
}

// ColumnCount returns the expanded vector length the classifier expects.
func (s *FeatureSchema) ColumnCount() int {
	return len(s.Columns)
}

// ColumnIndex returns the position of a column in the declared order.
func (s *FeatureSchema) ColumnIndex(name string) (int, bool) {
	i, ok := s.colIndex[name]
	return i, ok
}

// Field returns the raw-field definition by name.
func (s *FeatureSchema) Field(name string) (*Field, bool) {
	i, ok := s.fieldIndex[name]
	if !ok {
		return nil, false
	}
	return &s.Fields[i], true
}

// OriginOf maps an expanded column back to its raw field and, for one-hot
// columns, the categorical label it encodes. Label is empty for numeric
// columns. This is the reverse of the vocabulary lookup and is what lets
// the prompt builder show human-readable factor names.
func (s *FeatureSchema) OriginOf(column string) (field, label string, ok bool) {
	if f, isNumeric := s.numericCols[column]; isNumeric {
		return f, "", true
	}
	if origin, isOneHot := s.labelByCol[column]; isOneHot {
		return origin.field, origin.label, true
	}
	return "", "", false
}
