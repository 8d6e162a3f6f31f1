package models

// FeatureVector is the model-ready numeric encoding of an employee record.
// Element order matches the schema's declared column order exactly; length
// is fixed for a given loaded schema. Produced fresh per request.
type FeatureVector []float64

// PredictionResult holds the classifier output for one request. Immutable
// once created.
type PredictionResult struct {
	Probability float64 `json:"attritionProbability"`
	Verdict     bool    `json:"willLeave"`
	Threshold   float64 `json:"threshold"`
}

// RiskTier is the discrete risk bucket derived from the probability.
type RiskTier int

const (
	RiskLow RiskTier = iota
	RiskMedium
	RiskHigh
)

func (t RiskTier) String() string {
	switch t {
	case RiskHigh:
		return "HIGH"
	case RiskMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// Factor is one contributing factor surfaced to the LLM prompt. The
// ranking behind it uses scaled deviation as a proxy for influence; it is
// an approximation, not a coefficient-weighted or causal attribution.
type Factor struct {
	Field       string  `json:"field"`
	Display     string  `json:"display"`
	Direction   string  `json:"direction"`
	ScaledValue float64 `json:"scaledValue"`
}
