package prompt

import (
	"fmt"
	"sort"

	"attrition-advisor/internal/models"
	"attrition-advisor/internal/schema"
)

// Factor selection bounds for the generated prompt.
const (
	minFactors = 3
	maxFactors = 5
)

// Factor directions as rendered into the prompt.
const (
	DirectionRaises = "raises"
	DirectionLowers = "lowers"
)

// TopFactors picks the columns that push the score toward attrition,
// ranked by how far the scaled value deviates from the training mean.
// A column counts as risk-raising when the sign of its scaled value
// matches the sign of its coefficient. The ranking is a scaled-deviation
// heuristic, not a per-column attribution of the score.
//
// At least minFactors entries are returned even when fewer columns raise
// risk; the remainder is filled with the largest-deviation risk-lowering
// columns so the prompt always has material to work with.
func TopFactors(s *schema.FeatureSchema, vec models.FeatureVector) []models.Factor {
	type candidate struct {
		idx     int
		raising bool
	}

	candidates := make([]candidate, 0, len(vec))
	for i := range vec {
		candidates = append(candidates, candidate{
			idx:     i,
			raising: vec[i]*s.Coefficients[i] > 0,
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.raising != cb.raising {
			return ca.raising
		}
		ma, mb := abs(vec[ca.idx]), abs(vec[cb.idx])
		if ma != mb {
			return ma > mb
		}
		return ca.idx < cb.idx
	})

	n := 0
	for _, c := range candidates {
		if c.raising {
			n++
		}
	}
	if n < minFactors {
		n = minFactors
	}
	if n > maxFactors {
		n = maxFactors
	}
	if n > len(candidates) {
		n = len(candidates)
	}

	factors := make([]models.Factor, 0, n)
	for _, c := range candidates[:n] {
		direction := DirectionLowers
		if c.raising {
			direction = DirectionRaises
		}
		factors = append(factors, models.Factor{
			Field:       fieldOf(s, s.Columns[c.idx]),
			Display:     display(s, s.Columns[c.idx], vec[c.idx]),
			Direction:   direction,
			ScaledValue: vec[c.idx],
		})
	}
	return factors
}

func fieldOf(s *schema.FeatureSchema, column string) string {
	if field, _, ok := s.OriginOf(column); ok {
		return field
	}
	return column
}

// display renders a column as the wording the LLM sees. One-hot columns
// show the field with its label; numeric columns show whether the value
// sits above or below the workforce average.
func display(s *schema.FeatureSchema, column string, scaled float64) string {
	field, label, ok := s.OriginOf(column)
	if !ok {
		return column
	}
	if label != "" {
		return fmt.Sprintf("%s: %s", field, label)
	}
	side := "above"
	if scaled < 0 {
		side = "below"
	}
	return fmt.Sprintf("%s %s the workforce average", field, side)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
