package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attrition-advisor/internal/common/config"
	commonerrors "attrition-advisor/internal/common/errors"
	"attrition-advisor/internal/common/logger"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/report"
)

type mockSES struct {
	sendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	calls         int
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls++
	if m.sendEmailFunc != nil {
		return m.sendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{}, nil
}

func testNotificationConfig(enabled bool) *config.NotificationConfig {
	cfg := &config.NotificationConfig{}
	cfg.Email.Enabled = enabled
	cfg.Email.FromEmail = "advisor@example.com"
	cfg.Email.ToEmail = "hr@example.com"
	cfg.AWS.Region = "us-east-1"
	return cfg
}

func highRiskReport() report.Report {
	c := models.Consultation{
		ID:           "c-42",
		EmployeeName: "Jordan Example",
		Prediction:   models.PredictionResult{Probability: 0.93, Verdict: true, Threshold: 0.68},
		Tier:         models.RiskHigh,
	}
	return report.Render(c, time.Now())
}

func TestAlertHighRisk_Sends(t *testing.T) {
	var got *ses.SendEmailInput
	mock := &mockSES{
		sendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			got = params
			return &ses.SendEmailOutput{}, nil
		},
	}

	mailer := NewMailerWithClient(testNotificationConfig(true), mock, logger.NewTestLogger(t))
	require.NoError(t, mailer.AlertHighRisk(context.Background(), highRiskReport()))

	require.NotNil(t, got)
	assert.Equal(t, "advisor@example.com", *got.Source)
	assert.Equal(t, []string{"hr@example.com"}, got.Destination.ToAddresses)
	assert.Contains(t, *got.Message.Subject.Data, "Jordan Example")
	assert.Contains(t, *got.Message.Subject.Data, "93%")
	assert.Contains(t, *got.Message.Body.Text.Data, "# Attrition Consultation")
}

func TestAlertHighRisk_SkipsLowerTiers(t *testing.T) {
	mock := &mockSES{}
	mailer := NewMailerWithClient(testNotificationConfig(true), mock, logger.NewTestLogger(t))

	r := highRiskReport()
	r.Tier = models.RiskMedium

	require.NoError(t, mailer.AlertHighRisk(context.Background(), r))
	assert.Zero(t, mock.calls)
}

func TestAlertHighRisk_SkipsWhenDisabled(t *testing.T) {
	mock := &mockSES{}
	mailer := NewMailerWithClient(testNotificationConfig(false), mock, logger.NewTestLogger(t))

	require.NoError(t, mailer.AlertHighRisk(context.Background(), highRiskReport()))
	assert.Zero(t, mock.calls)
}

func TestAlertHighRisk_SendFailure(t *testing.T) {
	mock := &mockSES{
		sendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	mailer := NewMailerWithClient(testNotificationConfig(true), mock, logger.NewTestLogger(t))
	err := mailer.AlertHighRisk(context.Background(), highRiskReport())

	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeNotificationSendFailed, commonerrors.CodeOf(err))
}
