package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConsultation() models.Consultation {
	c := models.Consultation{
		ID:           "c-42",
		EmployeeName: "Jordan Example",
		Prediction:   models.PredictionResult{Probability: 0.93, Verdict: true, Threshold: 0.68},
		Tier:         models.RiskHigh,
		Factors: []models.Factor{
			{Field: "WorkLifeBalance", Display: "WorkLifeBalance: Bad", Direction: "raises", ScaledValue: 4.3},
			{Field: "OverTime", Display: "OverTime: Yes", Direction: "raises", ScaledValue: 1.6},
		},
	}
	c = c.WithTurn(models.RoleUser, "analysis request")
	c = c.WithTurn(models.RoleAssistant, "## Risk Assessment\nserious")
	c = c.WithTurn(models.RoleUser, "What first?")
	c = c.WithTurn(models.RoleAssistant, "Reduce the overtime load.")
	return c
}

func TestRender(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	r := Render(sampleConsultation(), now)

	assert.Equal(t, "c-42", r.ConsultationID)
	assert.Equal(t, models.RiskHigh, r.Tier)
	assert.True(t, r.Verdict)

	assert.Contains(t, r.Markdown, "# Attrition Consultation: Jordan Example")
	assert.Contains(t, r.Markdown, "93.0%")
	assert.Contains(t, r.Markdown, "HIGH")
	assert.Contains(t, r.Markdown, "likely to leave")
	assert.Contains(t, r.Markdown, "1. WorkLifeBalance: Bad")
	assert.Contains(t, r.Markdown, "## Retention Strategy")
	assert.Contains(t, r.Markdown, "## Follow-up Q&A")
	assert.Contains(t, r.Markdown, "**Q:** What first?")
	assert.Contains(t, r.Markdown, "**A:** Reduce the overtime load.")

	// The analysis prompt itself never appears in the report.
	assert.NotContains(t, r.Markdown, "analysis request")
}

func TestRender_PredictionOnly(t *testing.T) {
	c := sampleConsultation()
	c.History = nil

	r := Render(c, time.Now())

	assert.Contains(t, r.Markdown, "## Prediction")
	assert.NotContains(t, r.Markdown, "## Retention Strategy")
	assert.NotContains(t, r.Markdown, "## Follow-up Q&A")
}

func TestStore_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := Render(sampleConsultation(), time.Now())

	mock.ExpectExec("INSERT INTO consultation_reports").
		WithArgs(r.ConsultationID, r.EmployeeName, r.Probability, "HIGH", r.Verdict, r.Markdown, r.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db, logger.NewTestLogger(t))
	require.NoError(t, store.Save(context.Background(), r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO consultation_reports").
		WillReturnError(fmt.Errorf("connection reset"))

	store := NewStore(db, logger.NewTestLogger(t))
	err = store.Save(context.Background(), Render(sampleConsultation(), time.Now()))

	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeReportStoreFailed, commonerrors.CodeOf(err))
}

func TestStore_Init(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS consultation_reports").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewStore(db, logger.NewTestLogger(t))
	require.NoError(t, store.Init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"consultation_id", "employee_name", "probability", "tier", "verdict", "report_md", "created_at",
	}).
		AddRow("c-2", "B", 0.55, "MEDIUM", false, "md-2", created).
		AddRow("c-1", "A", 0.93, "HIGH", true, "md-1", created.Add(-time.Hour))

	mock.ExpectQuery("SELECT consultation_id, employee_name").
		WithArgs(10).
		WillReturnRows(rows)

	store := NewStore(db, logger.NewTestLogger(t))
	reports, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.Equal(t, "c-2", reports[0].ConsultationID)
	assert.Equal(t, models.RiskMedium, reports[0].Tier)
	assert.Equal(t, models.RiskHigh, reports[1].Tier)
}
