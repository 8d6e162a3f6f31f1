package prompt

import (
	"strings"
	"testing"

	"attrition-advisor/internal/feature"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSchema(t *testing.T) *schema.FeatureSchema {
	t.Helper()
	s, err := schema.Load("../../configs/model/model.json", "../../configs/model/features.json")
	require.NoError(t, err)
	return s
}

func riskyVector(t *testing.T, s *schema.FeatureSchema) models.FeatureVector {
	t.Helper()
	rec := models.NewEmployeeRecord("Jordan Example")
	rec.Fields["Age"] = models.Number(28)
	rec.Fields["MonthlyIncome"] = models.Number(4500)
	rec.Fields["JobSatisfaction"] = models.Label("Low")
	rec.Fields["WorkLifeBalance"] = models.Label("Bad")
	rec.Fields["OverTime"] = models.Label("Yes")
	vec, err := feature.Vector(s, rec)
	require.NoError(t, err)
	return vec
}

func TestTopFactors_RanksByScaledDeviation(t *testing.T) {
	s := loadSchema(t)
	factors := TopFactors(s, riskyVector(t, s))

	require.GreaterOrEqual(t, len(factors), 3)
	require.LessOrEqual(t, len(factors), 5)

	// Strongest first.
	for i := 1; i < len(factors); i++ {
		if factors[i-1].Direction == DirectionRaises && factors[i].Direction == DirectionRaises {
			assert.GreaterOrEqual(t,
				abs(factors[i-1].ScaledValue), abs(factors[i].ScaledValue))
		}
	}

	// WorkLifeBalance_Bad has the rarest label in this profile, so its
	// scaled deviation dominates the ranking.
	assert.Equal(t, "WorkLifeBalance", factors[0].Field)
	assert.Equal(t, DirectionRaises, factors[0].Direction)

	fields := make([]string, len(factors))
	for i, f := range factors {
		fields[i] = f.Field
	}
	assert.Contains(t, fields, "JobSatisfaction")
	assert.Contains(t, fields, "OverTime")
}

func TestTopFactors_Deterministic(t *testing.T) {
	s := loadSchema(t)
	vec := riskyVector(t, s)

	assert.Equal(t, TopFactors(s, vec), TopFactors(s, vec))
}

func TestTopFactors_FillsToMinimum(t *testing.T) {
	s := loadSchema(t)

	// A profile with almost nothing pushing toward attrition still yields
	// at least three factors for the prompt.
	rec := models.NewEmployeeRecord("Settled")
	rec.Fields["Age"] = models.Number(45)
	rec.Fields["MonthlyIncome"] = models.Number(12000)
	rec.Fields["YearsAtCompany"] = models.Number(15)
	rec.Fields["TotalWorkingYears"] = models.Number(20)
	vec, err := feature.Vector(s, rec)
	require.NoError(t, err)

	factors := TopFactors(s, vec)
	assert.GreaterOrEqual(t, len(factors), 3)
}

func TestTopFactors_DisplayNamesAreHumanReadable(t *testing.T) {
	s := loadSchema(t)
	factors := TopFactors(s, riskyVector(t, s))

	for _, f := range factors {
		// Raw one-hot column names never leak into the prompt.
		assert.NotContains(t, f.Display, "_")
	}
}

func testConsultation(t *testing.T) models.Consultation {
	s := loadSchema(t)
	vec := riskyVector(t, s)
	return models.Consultation{
		ID:           "test-consultation",
		EmployeeName: "Jordan Example",
		Prediction:   models.PredictionResult{Probability: 0.93, Verdict: true, Threshold: 0.68},
		Tier:         models.RiskHigh,
		Factors:      TopFactors(s, vec),
	}
}

func TestAnalysisRequest_HasFixedSections(t *testing.T) {
	text := AnalysisRequest(testConsultation(t))

	assert.Contains(t, text, "Jordan Example")
	assert.Contains(t, text, "93.0%")
	assert.Contains(t, text, "HIGH")

	// Sections appear in declared order.
	last := -1
	for _, section := range analysisSections {
		i := strings.Index(text, section)
		require.GreaterOrEqual(t, i, 0, section)
		assert.Greater(t, i, last)
		last = i
	}
}

func TestAnalysisRequest_Deterministic(t *testing.T) {
	c := testConsultation(t)
	assert.Equal(t, AnalysisRequest(c), AnalysisRequest(c))
}

func TestGroundingFacts_CarriesAssessment(t *testing.T) {
	text := GroundingFacts(testConsultation(t))

	assert.Contains(t, text, "Jordan Example")
	assert.Contains(t, text, "93.0%")
	assert.Contains(t, text, "HIGH")
	assert.Contains(t, text, "Key factors:")
}

func TestSuggestedQuestions_PerBand(t *testing.T) {
	high := SuggestedQuestions(models.RiskHigh)
	medium := SuggestedQuestions(models.RiskMedium)
	low := SuggestedQuestions(models.RiskLow)

	assert.NotEmpty(t, high)
	assert.NotEmpty(t, medium)
	assert.NotEmpty(t, low)
	assert.NotEqual(t, high, medium)
	assert.NotEqual(t, medium, low)
}
