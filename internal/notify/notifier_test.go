// internal/notify/notifier_test.go
package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-intel/internal/common/config"
	commonerrors "trade-intel/internal/common/errors"
	"trade-intel/internal/common/logger"
	"trade-intel/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type mockSES struct {
	calls []*ses.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	calls []*sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

func testNotificationConfig(email, sms bool) config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = email
	cfg.Email.FromEmail = "reports@example.com"
	cfg.Email.ToEmail = "analyst@example.com"
	cfg.SMS.Enabled = sms
	cfg.SMS.ToPhone = "+15550100"
	cfg.AWS.Region = "us-east-1"
	return cfg
}

func testResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Query: "tea exports from India",
		ParsedQuery: models.ParsedQuery{
			Intent:      models.IntentExportAnalysis,
			ProductName: "tea",
		},
		TradeData:    make([]models.TradeRecord, 9),
		DownloadLink: "/download/trade_data_tea_export_analysis.xlsx",
	}
}

// ==========================
// Tests
// ==========================

func TestNotifier_ReportReady_EmailOnly(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	notifier := NewWithClients(testNotificationConfig(true, false), sesMock, snsMock, logger.NewTestLogger(t))

	id, err := notifier.ReportReady(context.Background(), testResult())

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	require.Len(t, sesMock.calls, 1)
	assert.Empty(t, snsMock.calls)

	call := sesMock.calls[0]
	assert.Equal(t, "reports@example.com", *call.Source)
	assert.Equal(t, []string{"analyst@example.com"}, call.Destination.ToAddresses)
	assert.Contains(t, *call.Message.Subject.Data, "tea")
	assert.Contains(t, *call.Message.Body.Text.Data, "/download/trade_data_tea_export_analysis.xlsx")
}

func TestNotifier_ReportReady_BothChannels(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	notifier := NewWithClients(testNotificationConfig(true, true), sesMock, snsMock, logger.NewTestLogger(t))

	_, err := notifier.ReportReady(context.Background(), testResult())

	require.NoError(t, err)
	assert.Len(t, sesMock.calls, 1)
	require.Len(t, snsMock.calls, 1)
	assert.Equal(t, "+15550100", *snsMock.calls[0].PhoneNumber)
	assert.Contains(t, *snsMock.calls[0].Message, "9 records")
}

func TestNotifier_ReportReady_ChannelFailure(t *testing.T) {
	sesMock := &mockSES{err: errors.New("throttled")}
	snsMock := &mockSNS{}
	notifier := NewWithClients(testNotificationConfig(true, true), sesMock, snsMock, logger.NewTestLogger(t))

	id, err := notifier.ReportReady(context.Background(), testResult())

	require.Error(t, err)
	assert.NotEmpty(t, id)
	stdErr := commonerrors.AsStandard(err)
	assert.Equal(t, commonerrors.ErrCodeNotificationSendFailed, stdErr.Code)

	// The SMS channel still runs when email fails.
	assert.Len(t, snsMock.calls, 1)
}

func TestNotifier_ReportReady_NothingEnabled(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	notifier := NewWithClients(testNotificationConfig(false, false), sesMock, snsMock, logger.NewTestLogger(t))

	_, err := notifier.ReportReady(context.Background(), testResult())

	require.NoError(t, err)
	assert.Empty(t, sesMock.calls)
	assert.Empty(t, snsMock.calls)
}
