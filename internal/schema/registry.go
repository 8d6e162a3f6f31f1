package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// ArtifactDoc is the on-disk shape of the model artifact: column order,
// fitted scaler parameters, and classifier coefficients. Produced offline
// by the training pipeline; treated as opaque and never regenerated here.
type ArtifactDoc struct {
	Version    string                  `json:"version"`
	Columns    []string                `json:"columns"`
	Scaler     map[string]ScalerParams `json:"scaler"`
	Classifier ClassifierDoc           `json:"classifier"`
}

type ScalerParams struct {
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

type ClassifierDoc struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// FeaturesDoc is the on-disk shape of the raw-field configuration.
type FeaturesDoc struct {
	Fields []FieldDoc `json:"fields"`
}

type FieldDoc struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Question string      `json:"question"`
	Required bool        `json:"required"`
	Default  interface{} `json:"default,omitempty"`
	Min      *float64    `json:"min,omitempty"`
	Max      *float64    `json:"max,omitempty"`
	Options  []OptionDoc `json:"options,omitempty"`
}

type OptionDoc struct {
	Label  string `json:"label"`
	Column string `json:"column,omitempty"`
}

// Load reads and validates both artifact documents and assembles the
// immutable FeatureSchema. Any structural or consistency problem returns
// SCHEMA_INVALID; a process that cannot load its schema must not serve.
func Load(artifactPath, featuresPath string) (*FeatureSchema, error) {
	artifactRaw, err := os.ReadFile(artifactPath)
	if err != nil {
		return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("read model artifact: %v", err))
	}
	featuresRaw, err := os.ReadFile(featuresPath)
	if err != nil {
		return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("read feature config: %v", err))
	}

	if err := validateDocument(artifactRaw, artifactDocumentSchema, "model artifact"); err != nil {
		return nil, err
	}
	if err := validateDocument(featuresRaw, featuresDocumentSchema, "feature config"); err != nil {
		return nil, err
	}

	var artifact ArtifactDoc
	if err := json.Unmarshal(artifactRaw, &artifact); err != nil {
		return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("decode model artifact: %v", err))
	}
	var features FeaturesDoc
	if err := json.Unmarshal(featuresRaw, &features); err != nil {
		return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("decode feature config: %v", err))
	}

	return New(artifact, features)
}

func validateDocument(raw []byte, documentSchema, name string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return commonerrors.NewSchemaInvalidError(fmt.Sprintf("validate %s: %v", name, err))
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return commonerrors.NewSchemaInvalidError(fmt.Sprintf("%s: %s", name, strings.Join(msgs, "; ")))
	}
	return nil
}

// New cross-validates the decoded documents and builds the FeatureSchema.
// Consistency rules: every column has exactly one owner (a numeric field
// or a single one-hot option), scaler and coefficient entries cover the
// column list exactly, scales are positive, choice fields carry a
// vocabulary, and defaults are well-typed.
func New(artifact ArtifactDoc, features FeaturesDoc) (*FeatureSchema, error) {
	s := &FeatureSchema{
		Version:     artifact.Version,
		Columns:     artifact.Columns,
		Intercept:   artifact.Classifier.Intercept,
		colIndex:    make(map[string]int, len(artifact.Columns)),
		fieldIndex:  make(map[string]int, len(features.Fields)),
		labelByCol:  make(map[string]colOrigin),
		numericCols: make(map[string]string),
	}

	for i, col := range artifact.Columns {
		if _, dup := s.colIndex[col]; dup {
			return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("duplicate column %q", col))
		}
		s.colIndex[col] = i
	}

	s.Means = make([]float64, len(s.Columns))
	s.Scales = make([]float64, len(s.Columns))
	s.Coefficients = make([]float64, len(s.Columns))

	if len(artifact.Scaler) != len(s.Columns) {
		return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
			"scaler covers %d columns, artifact declares %d", len(artifact.Scaler), len(s.Columns)))
	}
	if len(artifact.Classifier.Coefficients) != len(s.Columns) {
		return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
			"classifier covers %d columns, artifact declares %d", len(artifact.Classifier.Coefficients), len(s.Columns)))
	}

	for col, i := range s.colIndex {
		params, ok := artifact.Scaler[col]
		if !ok {
			return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("column %q has no scaler entry", col))
		}
		if params.Scale <= 0 {
			return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("column %q has non-positive scale %v", col, params.Scale))
		}
		coef, ok := artifact.Classifier.Coefficients[col]
		if !ok {
			return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("column %q has no coefficient", col))
		}
		s.Means[i] = params.Mean
		s.Scales[i] = params.Scale
		s.Coefficients[i] = coef
	}

	s.Fields = make([]Field, 0, len(features.Fields))
	for _, doc := range features.Fields {
		field, err := buildField(doc, s)
		if err != nil {
			return nil, err
		}
		if _, dup := s.fieldIndex[field.Name]; dup {
			return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("duplicate field %q", field.Name))
		}
		s.fieldIndex[field.Name] = len(s.Fields)
		s.Fields = append(s.Fields, field)
	}

	// Every declared column must trace back to exactly one field.
	for _, col := range s.Columns {
		_, numeric := s.numericCols[col]
		_, oneHot := s.labelByCol[col]
		if !numeric && !oneHot {
			return nil, commonerrors.NewSchemaInvalidError(fmt.Sprintf("column %q is not produced by any field", col))
		}
	}

	return s, nil
}

func buildField(doc FieldDoc, s *FeatureSchema) (Field, error) {
	field := Field{
		Name:     doc.Name,
		Type:     doc.Type,
		Question: doc.Question,
		Required: doc.Required,
		Min:      doc.Min,
		Max:      doc.Max,
	}

	switch doc.Type {
	case FieldNumber:
		if _, ok := s.colIndex[doc.Name]; !ok {
			return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
				"numeric field %q has no matching column", doc.Name))
		}
		if prev, taken := s.numericCols[doc.Name]; taken {
			return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
				"column %q claimed by both %q and %q", doc.Name, prev, doc.Name))
		}
		s.numericCols[doc.Name] = doc.Name

		if doc.Default != nil {
			num, ok := doc.Default.(float64)
			if !ok {
				return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
					"numeric field %q has non-numeric default %v", doc.Name, doc.Default))
			}
			v := models.Number(num)
			field.Default = &v
		}

	case FieldChoice:
		if len(doc.Options) == 0 {
			return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
				"categorical field %q declares no vocabulary", doc.Name))
		}
		seen := make(map[string]bool, len(doc.Options))
		for _, opt := range doc.Options {
			if seen[opt.Label] {
				return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
					"field %q repeats label %q", doc.Name, opt.Label))
			}
			seen[opt.Label] = true

			if opt.Column != "" {
				if _, ok := s.colIndex[opt.Column]; !ok {
					return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
						"field %q label %q maps to unknown column %q", doc.Name, opt.Label, opt.Column))
				}
				if prev, taken := s.labelByCol[opt.Column]; taken {
					return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
						"column %q claimed by both %s=%s and %s=%s",
						opt.Column, prev.field, prev.label, doc.Name, opt.Label))
				}
				s.labelByCol[opt.Column] = colOrigin{field: doc.Name, label: opt.Label}
			}
			field.Options = append(field.Options, Option{Label: opt.Label, Column: opt.Column})
		}

		if doc.Default != nil {
			label, ok := doc.Default.(string)
			if !ok {
				return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
					"categorical field %q has non-string default %v", doc.Name, doc.Default))
			}
			if !seen[label] {
				return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
					"field %q default %q is not in its vocabulary", doc.Name, label))
			}
			v := models.Label(label)
			field.Default = &v
		}

	default:
		return Field{}, commonerrors.NewSchemaInvalidError(fmt.Sprintf(
			"field %q has unsupported type %q", doc.Name, doc.Type))
	}

	return field, nil
}
