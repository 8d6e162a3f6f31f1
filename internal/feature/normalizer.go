// Package feature turns raw employee records into the scaled numeric
// vectors the classifier consumes. The transform is deterministic and has
// three stages: fill absent fields from the schema defaults, expand
// categorical labels into their one-hot columns, then apply the fitted
// standard scaler per column. Column order always follows the schema's
// declared order.
package feature

import (
	"strconv"

	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/schema"
)

// Vector normalizes a raw record into the classifier's input vector.
//
// Missing fields fall back to the schema default; a required field with no
// default yields MISSING_FIELD. Categorical lookups are case-sensitive and
// an unlisted label yields UNKNOWN_CATEGORY; labels the encoder dropped
// encode as all zeros. The record itself is never mutated.
func Vector(s *schema.FeatureSchema, rec models.EmployeeRecord) (models.FeatureVector, error) {
	raw := make([]float64, s.ColumnCount())

	for i := range s.Fields {
		field := &s.Fields[i]
		value, present := rec.Fields[field.Name]
		if !present {
			if field.Default == nil {
				if field.Required {
					return nil, commonerrors.NewMissingFieldError(field.Name)
				}
				continue
			}
			value = *field.Default
		}

		switch field.Type {
		case schema.FieldNumber:
			num, err := numeric(field.Name, value)
			if err != nil {
				return nil, err
			}
			idx, ok := s.ColumnIndex(field.Name)
			if !ok {
				return nil, commonerrors.NewSchemaInvalidError("numeric field " + field.Name + " has no column")
			}
			raw[idx] = num

		case schema.FieldChoice:
			label := value.String()
			column, known := field.ColumnFor(label)
			if !known {
				return nil, commonerrors.NewUnknownCategoryError(field.Name, label)
			}
			if column == "" {
				// Dropped by the encoder during training; contributes nothing.
				continue
			}
			idx, ok := s.ColumnIndex(column)
			if !ok {
				return nil, commonerrors.NewSchemaInvalidError("option column " + column + " not in column list")
			}
			raw[idx] = 1
		}
	}

	out := make(models.FeatureVector, len(raw))
	for i, v := range raw {
		out[i] = (v - s.Means[i]) / s.Scales[i]
	}
	return out, nil
}

// numeric coerces a field value into a float. String-typed inputs (CLI
// answers, CSV cells) are parsed; anything unparsable is reported against
// the field the same way an out-of-vocabulary label would be.
func numeric(field string, v models.FieldValue) (float64, error) {
	if v.Kind == models.ValueNumber {
		return v.Num, nil
	}
	parsed, err := strconv.ParseFloat(v.Label, 64)
	if err != nil {
		return 0, commonerrors.NewUnknownCategoryError(field, v.Label)
	}
	return parsed, nil
}
