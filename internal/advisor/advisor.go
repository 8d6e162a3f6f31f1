// Package advisor composes the full consultation pipeline: normalize a
// raw record, score it, rank the contributing factors, then engage the
// GenAI service for a retention strategy and follow-up Q&A. Both
// front-ends sit on this facade.
package advisor

import (
	"context"

	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/common/metrics"
	"attrition-advisor/internal/engagement"
	"attrition-advisor/internal/feature"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/predictor"
	"attrition-advisor/internal/prompt"
	"attrition-advisor/internal/schema"

	"github.com/google/uuid"

	commonerrors "attrition-advisor/internal/common/errors"
)

// Scored is the deterministic half of an assessment: the prediction and
// the ranked factors, before any LLM involvement.
type Scored struct {
	Prediction models.PredictionResult
	Tier       models.RiskTier
	Factors    []models.Factor
}

// Assessment is the outcome of a full consultation start. The prediction
// is always present; when the engagement service is down, Analysis is
// empty and EngagementErr says why, so callers can show the score and let
// the user retry the advisory part.
type Assessment struct {
	Consultation       models.Consultation
	Scored             Scored
	Analysis           string
	SuggestedQuestions []string
	EngagementErr      error
}

// Advisor wires the scoring pipeline to the engagement engine.
type Advisor struct {
	schema *schema.FeatureSchema
	model  *predictor.Model
	engine *engagement.Engine
	logger logger.Logger
}

func New(s *schema.FeatureSchema, threshold float64, engine *engagement.Engine, log logger.Logger) *Advisor {
	return &Advisor{
		schema: s,
		model:  predictor.New(s, threshold),
		engine: engine,
		logger: log.WithFields(map[string]interface{}{"component": "advisor"}),
	}
}

// Score normalizes and scores a record without touching the LLM. Caller
// errors (missing field, unknown label) come back as-is for the front-end
// to surface.
func (a *Advisor) Score(rec models.EmployeeRecord) (Scored, error) {
	vec, err := feature.Vector(a.schema, rec)
	if err != nil {
		metrics.NormalizeFailuresTotal.WithLabelValues(string(commonerrors.CodeOf(err))).Inc()
		return Scored{}, err
	}

	result, err := a.model.Predict(vec)
	if err != nil {
		return Scored{}, err
	}

	tier := predictor.Tier(result.Probability)
	metrics.PredictionsTotal.WithLabelValues(tier.String()).Inc()

	a.logger.Info("prediction served", map[string]interface{}{
		"employee":    rec.Name,
		"probability": result.Probability,
		"tier":        tier.String(),
	})

	return Scored{
		Prediction: result,
		Tier:       tier,
		Factors:    prompt.TopFactors(a.schema, vec),
	}, nil
}

// Assess runs the whole pipeline for one employee. A scoring failure
// aborts with an error; an engagement failure does not, because the
// prediction is already computed and must stay retrievable.
func (a *Advisor) Assess(ctx context.Context, rec models.EmployeeRecord) (Assessment, error) {
	scored, err := a.Score(rec)
	if err != nil {
		return Assessment{}, err
	}

	c := models.Consultation{
		ID:           uuid.NewString(),
		EmployeeName: rec.Name,
		Prediction:   scored.Prediction,
		Tier:         scored.Tier,
		Factors:      scored.Factors,
	}

	assessment := Assessment{
		Consultation:       c,
		Scored:             scored,
		SuggestedQuestions: prompt.SuggestedQuestions(scored.Tier),
	}

	engaged, err := a.engine.Analyze(ctx, c)
	if err != nil {
		assessment.EngagementErr = err
		return assessment, nil
	}

	assessment.Consultation = engaged
	assessment.Analysis = lastAssistantTurn(engaged)
	return assessment, nil
}

// Chat answers a follow-up question on an existing consultation and
// returns the consultation with both new turns appended.
func (a *Advisor) Chat(ctx context.Context, c models.Consultation, question string) (models.Consultation, string, error) {
	updated, err := a.engine.Chat(ctx, c, question)
	if err != nil {
		return c, "", err
	}
	return updated, lastAssistantTurn(updated), nil
}

func lastAssistantTurn(c models.Consultation) string {
	for i := len(c.History) - 1; i >= 0; i-- {
		if c.History[i].Role == models.RoleAssistant {
			return c.History[i].Content
		}
	}
	return ""
}
