package api

import "attrition-advisor/internal/models"

// AnalyzeRequest starts a consultation. Either Employee names a roster
// entry or Fields carries the raw record inline; Fields wins when both
// are set.
type AnalyzeRequest struct {
	Name     string                 `json:"name"`
	Employee string                 `json:"employee"`
	Fields   map[string]interface{} `json:"fields"`
}

type AnalyzeResponse struct {
	ConsultationID     string                  `json:"consultationId"`
	Employee           string                  `json:"employee"`
	Prediction         models.PredictionResult `json:"prediction"`
	Tier               string                  `json:"tier"`
	Factors            []models.Factor         `json:"factors"`
	Analysis           string                  `json:"analysis,omitempty"`
	SuggestedQuestions []string                `json:"suggestedQuestions"`
	EngagementError    *ErrorBody              `json:"engagementError,omitempty"`
}

type ChatRequest struct {
	ConsultationID string `json:"consultationId"`
	Question       string `json:"question"`
}

type ChatResponse struct {
	ConsultationID string `json:"consultationId"`
	Reply          string `json:"reply"`
	Turns          int    `json:"turns"`
}

type RosterEntry struct {
	Name string `json:"name"`
}

type RosterResponse struct {
	Employees []RosterEntry `json:"employees"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
