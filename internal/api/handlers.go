package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", err.Error())
		return
	}

	rec, ok := s.resolveRecord(w, req)
	if !ok {
		return
	}

	start := time.Now()
	assessment, err := s.advisor.Assess(r.Context(), rec)
	if err != nil {
		s.recordAnalysis(r, "error")
		s.writeStandardError(w, err)
		return
	}
	s.recordAnalysis(r, "success")
	if s.obs != nil {
		s.obs.RecordEngagementDuration(r.Context(), time.Since(start), "analyze")
	}

	if err := s.sessions.Put(r.Context(), assessment.Consultation); err != nil {
		s.writeStandardError(w, err)
		return
	}

	s.persistAndAlert(r, assessment.Consultation)

	resp := AnalyzeResponse{
		ConsultationID:     assessment.Consultation.ID,
		Employee:           rec.Name,
		Prediction:         assessment.Scored.Prediction,
		Tier:               assessment.Scored.Tier.String(),
		Factors:            assessment.Scored.Factors,
		Analysis:           assessment.Analysis,
		SuggestedQuestions: assessment.SuggestedQuestions,
	}
	if assessment.EngagementErr != nil {
		resp.EngagementError = errorBody(assessment.EngagementErr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "question is required", "")
		return
	}

	c, err := s.sessions.Get(r.Context(), req.ConsultationID)
	if err != nil {
		s.writeStandardError(w, err)
		return
	}

	start := time.Now()
	updated, reply, err := s.advisor.Chat(r.Context(), c, req.Question)
	if err != nil {
		s.writeStandardError(w, err)
		return
	}
	if s.obs != nil {
		s.obs.RecordEngagementDuration(r.Context(), time.Since(start), "chat")
	}

	if err := s.sessions.Put(r.Context(), updated); err != nil {
		s.writeStandardError(w, err)
		return
	}
	s.persistReport(r, updated)

	writeJSON(w, http.StatusOK, ChatResponse{
		ConsultationID: updated.ID,
		Reply:          reply,
		Turns:          len(updated.History),
	})
}

func (s *Server) handleRoster(w http.ResponseWriter, _ *http.Request) {
	resp := RosterResponse{Employees: []RosterEntry{}}
	for _, name := range s.roster.Names() {
		resp.Employees = append(resp.Employees, RosterEntry{Name: name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveRecord turns the request into a raw record, either inline fields
// or a roster lookup. Writes the error response itself on failure.
func (s *Server) resolveRecord(w http.ResponseWriter, req AnalyzeRequest) (models.EmployeeRecord, bool) {
	if len(req.Fields) > 0 {
		name := req.Name
		if name == "" {
			name = req.Employee
		}
		if name == "" {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "name is required with inline fields", "")
			return models.EmployeeRecord{}, false
		}
		return models.RecordFromMap(name, req.Fields), true
	}

	if req.Employee == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "employee or fields is required", "")
		return models.EmployeeRecord{}, false
	}
	entry, ok := s.roster.Find(req.Employee)
	if !ok {
		writeError(w, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "employee not on roster", req.Employee)
		return models.EmployeeRecord{}, false
	}
	return entry.Record, true
}

// persistAndAlert stores the report and fires the high-risk alert. Both
// are best-effort: the prediction was already served, a storage or mail
// failure must not turn it into a request error.
func (s *Server) persistAndAlert(r *http.Request, c models.Consultation) {
	rendered, saved := s.persistReport(r, c)
	if !saved {
		return
	}
	if s.alerts != nil {
		if err := s.alerts.AlertHighRisk(r.Context(), rendered); err != nil {
			s.logger.WithError(err).Warn("high-risk alert failed", map[string]interface{}{
				"consultationId": c.ID,
			})
		}
	}
}

func (s *Server) persistReport(r *http.Request, c models.Consultation) (report.Report, bool) {
	if s.reports == nil {
		return report.Report{}, false
	}
	rendered := report.Render(c, time.Now())
	if err := s.reports.Save(r.Context(), rendered); err != nil {
		s.logger.WithError(err).Warn("report save failed", map[string]interface{}{
			"consultationId": c.ID,
		})
		return report.Report{}, false
	}
	return rendered, true
}

func (s *Server) recordAnalysis(r *http.Request, status string) {
	if s.obs != nil {
		s.obs.RecordAnalysis(r.Context(), status)
	}
}

func (s *Server) writeStandardError(w http.ResponseWriter, err error) {
	var stdErr *commonerrors.StandardError
	if !errors.As(err, &stdErr) {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error", "")
		return
	}
	writeJSON(w, statusFor(stdErr.Code), ErrorBody{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	})
}

func statusFor(code commonerrors.ErrorCode) int {
	switch code {
	case commonerrors.ErrCodeMissingField, commonerrors.ErrCodeUnknownCategory:
		return http.StatusUnprocessableEntity
	case commonerrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case commonerrors.ErrCodeEngagementUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) *ErrorBody {
	var stdErr *commonerrors.StandardError
	if errors.As(err, &stdErr) {
		return &ErrorBody{Code: string(stdErr.Code), Message: stdErr.Message, Details: stdErr.Details}
	}
	return &ErrorBody{Code: "INTERNAL", Message: err.Error()}
}

func writeError(w http.ResponseWriter, status int, code, message, details string) {
	writeJSON(w, status, ErrorBody{Code: code, Message: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
