// Package email delivers rendered transactional emails through Amazon SES.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"notarycalc/internal/entity"
)

const charset = "UTF-8"

var ErrInvalidMessage = errors.New("invalid email message")

// SESService is the part of the SES client the mailer needs.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends email from a fixed verified sender.
type SESMailer struct {
	client SESService
	from   string
	log    *slog.Logger
}

// NewSESMailer loads the default AWS credential chain for region.
func NewSESMailer(ctx context.Context, region, from string, log *slog.Logger) (*SESMailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewWithClient(ses.NewFromConfig(cfg), from, log), nil
}

func NewWithClient(client SESService, from string, log *slog.Logger) *SESMailer {
	if log == nil {
		log = slog.Default()
	}
	return &SESMailer{client: client, from: from, log: log}
}

func (m *SESMailer) Send(ctx context.Context, msg entity.EmailMessage) error {
	if msg.To == "" || msg.Subject == "" {
		return ErrInvalidMessage
	}
	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charset)},
			},
		},
		Source: aws.String(m.from),
	})
	if err != nil {
		return fmt.Errorf("ses send %s: %w", msg.Kind, err)
	}
	m.log.Debug("email sent",
		slog.String("kind", msg.Kind),
		slog.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}

// LogMailer writes emails to the log instead of sending them. Used when SES is not configured.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	if log == nil {
		log = slog.Default()
	}
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg entity.EmailMessage) error {
	if msg.To == "" || msg.Subject == "" {
		return ErrInvalidMessage
	}
	m.log.Info("email not sent, mailer disabled",
		slog.String("kind", msg.Kind),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}
