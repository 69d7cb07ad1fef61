package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender delivers EMAIL channel messages through the Gmail API
type GmailSender struct {
	service *gmail.Service
	from    string
	logger  logger.Logger
}

// NewGmailSender creates a new Gmail sender
func NewGmailSender(ctx context.Context, tokenSource oauth2.TokenSource, from string, logger logger.Logger) (*GmailSender, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &GmailSender{
		service: service,
		from:    from,
		logger:  logger,
	}, nil
}

// Send builds an RFC 2822 message and sends it via the authenticated account.
// Returns the Gmail-assigned message id.
func (s *GmailSender) Send(ctx context.Context, msg *repository.OutboundMessage) (string, error) {
	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		s.from, msg.Contact, msg.Subject, msg.Body)

	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	sent, err := s.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do()
	if err != nil {
		s.logger.Error("Failed to send email", "to", msg.Contact, "subject", msg.Subject, "error", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("Email sent", "to", msg.Contact, "subject", msg.Subject, "messageId", sent.Id)
	return sent.Id, nil
}
