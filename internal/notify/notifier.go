// internal/notify/notifier.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"

	"trade-intel/internal/common/config"
	commonerrors "trade-intel/internal/common/errors"
	"trade-intel/internal/common/logger"
	"trade-intel/internal/models"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier announces a finished analysis report over the configured
// channels. Failures are reported to the caller for logging but never
// fail the analysis itself.
type Notifier struct {
	cfg       config.NotificationConfig
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Notifier{
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

// NewWithClients injects channel clients directly, used in tests.
func NewWithClients(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// ReportReady sends the download link over every enabled channel and
// returns the notification id with the first channel error, if any.
func (n *Notifier) ReportReady(ctx context.Context, result *models.AnalysisResult) (string, error) {
	notificationID := uuid.New().String()

	var firstErr error

	if n.cfg.Email.Enabled {
		if err := n.sendEmail(ctx, result); err != nil {
			firstErr = err
		}
	}
	if n.cfg.SMS.Enabled {
		if err := n.sendSMS(ctx, result); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return notificationID, firstErr
}

func (n *Notifier) sendEmail(ctx context.Context, result *models.AnalysisResult) error {
	subject := fmt.Sprintf("Trade analysis ready: %s %s",
		result.ParsedQuery.Identifier(), result.ParsedQuery.Intent)
	body := fmt.Sprintf(
		"Your trade analysis for %q has completed with %d records.\n\nDownload: %s\n",
		result.Query, len(result.TradeData), result.DownloadLink)

	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.Email.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{n.cfg.Email.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return commonerrors.NewNotificationSendFailedError("email", err)
	}
	return nil
}

func (n *Notifier) sendSMS(ctx context.Context, result *models.AnalysisResult) error {
	message := fmt.Sprintf("Trade analysis ready (%d records): %s",
		len(result.TradeData), result.DownloadLink)

	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(n.cfg.SMS.ToPhone),
		Message:     aws.String(message),
	})
	if err != nil {
		return commonerrors.NewNotificationSendFailedError("sms", err)
	}
	return nil
}
