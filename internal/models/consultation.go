package models

// Role values for conversation turns.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one (role, message) pair in a consultation's conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Consultation is the caller-owned conversation state for follow-up Q&A.
// It carries the grounding facts (employee identity, prediction, factors)
// that every chat turn must resend so answers stay consistent with the
// original assessment. History is append-only; the engagement engine never
// retains its own copy, so independent consultations can run concurrently.
// Concurrent chat calls on the same consultation must be serialized by the
// caller.
type Consultation struct {
	ID           string           `json:"id"`
	EmployeeName string           `json:"employeeName"`
	Prediction   PredictionResult `json:"prediction"`
	Tier         RiskTier         `json:"tier"`
	Factors      []Factor         `json:"factors"`
	History      []Turn           `json:"history"`
}

// WithTurn returns a copy of the consultation with the turn appended. The
// receiver is not modified; callers thread the returned value forward.
func (c Consultation) WithTurn(role, content string) Consultation {
	history := make([]Turn, 0, len(c.History)+1)
	history = append(history, c.History...)
	history = append(history, Turn{Role: role, Content: content})
	c.History = history
	return c
}
