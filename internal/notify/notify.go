// Package notify emails HR when a consultation lands in the HIGH risk
// tier, so retention conversations start without anyone polling reports.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"attrition-advisor/internal/common/config"
	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/report"
)

// SESService is the slice of the SES client the mailer needs.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Mailer sends high-risk alerts through SES. When alerts are disabled in
// configuration every send is a silent no-op.
type Mailer struct {
	config *config.NotificationConfig
	ses    SESService
	logger logger.Logger
}

// NewMailer builds a mailer against the default AWS credential chain.
func NewMailer(ctx context.Context, cfg *config.NotificationConfig, log logger.Logger) (*Mailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewMailerWithClient(cfg, ses.NewFromConfig(awsCfg), log), nil
}

// NewMailerWithClient builds a mailer over an explicit SES client.
func NewMailerWithClient(cfg *config.NotificationConfig, client SESService, log logger.Logger) *Mailer {
	return &Mailer{
		config: cfg,
		ses:    client,
		logger: log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

// AlertHighRisk emails the rendered report when the consultation sits in
// the HIGH tier. Lower tiers and disabled configuration return nil without
// sending anything.
func (m *Mailer) AlertHighRisk(ctx context.Context, r report.Report) error {
	if !m.config.Email.Enabled || r.Tier != models.RiskHigh {
		return nil
	}

	subject := fmt.Sprintf("High attrition risk: %s (%.0f%%)", r.EmployeeName, r.Probability*100)
	input := &ses.SendEmailInput{
		Source: aws.String(m.config.Email.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{m.config.Email.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(r.Markdown)},
			},
		},
	}

	if _, err := m.ses.SendEmail(ctx, input); err != nil {
		m.logger.WithError(err).Error("high-risk alert failed", map[string]interface{}{
			"employee": r.EmployeeName,
		})
		return commonerrors.NewNotificationSendFailedError(err)
	}

	m.logger.Info("high-risk alert sent", map[string]interface{}{
		"employee": r.EmployeeName,
		"to":       m.config.Email.ToEmail,
	})
	return nil
}
