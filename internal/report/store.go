package report

import (
	"context"
	"database/sql"

	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/models"
)

const createTableStmt = `
CREATE TABLE IF NOT EXISTS consultation_reports (
	consultation_id TEXT PRIMARY KEY,
	employee_name   TEXT NOT NULL,
	probability     DOUBLE PRECISION NOT NULL,
	tier            TEXT NOT NULL,
	verdict         BOOLEAN NOT NULL,
	report_md       TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
)`

const insertStmt = `
INSERT INTO consultation_reports
	(consultation_id, employee_name, probability, tier, verdict, report_md, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (consultation_id) DO UPDATE SET
	report_md = EXCLUDED.report_md,
	created_at = EXCLUDED.created_at`

// Store persists rendered reports to Postgres. Saving the same
// consultation again overwrites the stored report, so a consultation that
// continues after an initial save just supersedes it.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "report-store"}),
	}
}

// Init creates the backing table when it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableStmt); err != nil {
		return commonerrors.NewReportStoreFailedError(err)
	}
	return nil
}

// Save writes one rendered report.
func (s *Store) Save(ctx context.Context, r Report) error {
	_, err := s.db.ExecContext(ctx, insertStmt,
		r.ConsultationID,
		r.EmployeeName,
		r.Probability,
		r.Tier.String(),
		r.Verdict,
		r.Markdown,
		r.CreatedAt,
	)
	if err != nil {
		s.logger.WithError(err).Error("report save failed", map[string]interface{}{
			"consultationId": r.ConsultationID,
		})
		return commonerrors.NewReportStoreFailedError(err)
	}

	s.logger.Info("report saved", map[string]interface{}{
		"consultationId": r.ConsultationID,
		"employee":       r.EmployeeName,
	})
	return nil
}

// Recent returns the latest stored reports, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Report, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT consultation_id, employee_name, probability, tier, verdict, report_md, created_at
FROM consultation_reports
ORDER BY created_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, commonerrors.NewReportStoreFailedError(err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var tier string
		if err := rows.Scan(&r.ConsultationID, &r.EmployeeName, &r.Probability, &tier, &r.Verdict, &r.Markdown, &r.CreatedAt); err != nil {
			return nil, commonerrors.NewReportStoreFailedError(err)
		}
		r.Tier = tierFromString(tier)
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewReportStoreFailedError(err)
	}
	return reports, nil
}

func tierFromString(s string) models.RiskTier {
	switch s {
	case "HIGH":
		return models.RiskHigh
	case "MEDIUM":
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
