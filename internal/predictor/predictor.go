// Package predictor evaluates the logistic-regression attrition classifier
// over normalized feature vectors and maps probabilities onto risk tiers.
package predictor

import (
	"math"

	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/schema"
)

// Risk tier cutoffs. A probability exactly on a boundary belongs to the
// higher tier.
const (
	highCutoff   = 0.70
	mediumCutoff = 0.40
)

// Model scores feature vectors against the loaded classifier weights.
type Model struct {
	schema    *schema.FeatureSchema
	threshold float64
}

// New creates a predictor over the given schema. threshold is the decision
// cut for the binary verdict, not for the tier bands.
func New(s *schema.FeatureSchema, threshold float64) *Model {
	return &Model{schema: s, threshold: threshold}
}

// Predict scores a normalized vector. A vector whose length does not match
// the schema's column count fails with DIMENSION_MISMATCH; the vector is
// never truncated or padded to fit.
func (m *Model) Predict(vec models.FeatureVector) (models.PredictionResult, error) {
	want := m.schema.ColumnCount()
	if len(vec) != want {
		return models.PredictionResult{}, commonerrors.NewDimensionMismatchError(len(vec), want)
	}

	z := m.schema.Intercept
	for i, x := range vec {
		z += m.schema.Coefficients[i] * x
	}
	p := 1 / (1 + math.Exp(-z))

	return models.PredictionResult{
		Probability: p,
		Verdict:     p >= m.threshold,
		Threshold:   m.threshold,
	}, nil
}

// Tier maps a probability onto the three-band risk scale used by the
// report and the prompt builder.
func Tier(p float64) models.RiskTier {
	switch {
	case p >= highCutoff:
		return models.RiskHigh
	case p >= mediumCutoff:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
