package engagement

import (
	"context"
	"time"

	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/common/metrics"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/prompt"
)

// Engine drives the two engagement operations: the initial retention
// analysis and follow-up chat. It holds no conversation state; callers
// thread the Consultation value through successive calls.
type Engine struct {
	generator Generator
	logger    logger.Logger
}

func NewEngine(g Generator, log logger.Logger) *Engine {
	return &Engine{
		generator: g,
		logger:    log.WithFields(map[string]interface{}{"component": "engagement"}),
	}
}

// Analyze requests the initial retention strategy for a scored employee.
// On success the returned consultation carries the analysis request and
// the advisor's reply as its first two turns. On failure the input
// consultation comes back unchanged, so the caller still has the
// prediction to show.
func (e *Engine) Analyze(ctx context.Context, c models.Consultation) (models.Consultation, error) {
	request := prompt.AnalysisRequest(c)
	messages := []models.Turn{
		{Role: models.RoleSystem, Content: prompt.SystemPrompt()},
		{Role: models.RoleUser, Content: request},
	}

	reply, err := e.generate(ctx, "analyze", messages)
	if err != nil {
		e.logger.WithError(err).Error("retention analysis failed", map[string]interface{}{
			"consultationId": c.ID,
		})
		return c, err
	}

	return c.WithTurn(models.RoleUser, request).WithTurn(models.RoleAssistant, reply), nil
}

// Chat answers a follow-up question. The request resends the grounding
// facts plus the entire history so far; the service itself remembers
// nothing between calls. On failure the consultation comes back unchanged
// and the question is not recorded, so a retry does not duplicate turns.
func (e *Engine) Chat(ctx context.Context, c models.Consultation, question string) (models.Consultation, error) {
	messages := make([]models.Turn, 0, len(c.History)+3)
	messages = append(messages,
		models.Turn{Role: models.RoleSystem, Content: prompt.SystemPrompt()},
		models.Turn{Role: models.RoleSystem, Content: prompt.GroundingFacts(c)},
	)
	messages = append(messages, c.History...)
	messages = append(messages, models.Turn{Role: models.RoleUser, Content: question})

	reply, err := e.generate(ctx, "chat", messages)
	if err != nil {
		e.logger.WithError(err).Error("follow-up chat failed", map[string]interface{}{
			"consultationId": c.ID,
			"turns":          len(c.History),
		})
		return c, err
	}

	return c.WithTurn(models.RoleUser, question).WithTurn(models.RoleAssistant, reply), nil
}

func (e *Engine) generate(ctx context.Context, operation string, messages []models.Turn) (string, error) {
	start := time.Now()
	reply, err := e.generator.Generate(ctx, messages)
	metrics.EngagementDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.EngagementRequestsTotal.WithLabelValues(operation, status).Inc()
	return reply, err
}
