package mailer

import (
	"context"
	"fmt"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/logger"
)

// ChannelRouter routes outbound messages to the sender registered for their channel
type ChannelRouter struct {
	senders map[string]repository.MessageSender
	logger  logger.Logger
}

// NewChannelRouter creates a new channel router
func NewChannelRouter(logger logger.Logger) *ChannelRouter {
	return &ChannelRouter{
		senders: make(map[string]repository.MessageSender),
		logger:  logger,
	}
}

// Register registers a sender for a channel
func (r *ChannelRouter) Register(channel string, sender repository.MessageSender) {
	r.senders[channel] = sender
	r.logger.Info("Registered message sender", "channel", channel)
}

// Send dispatches the message through the sender for its channel.
// Messages without an explicit channel fall back to email when a contact with
// an "@" is present, SMS otherwise.
func (r *ChannelRouter) Send(ctx context.Context, msg *repository.OutboundMessage) (string, error) {
	channel := msg.Channel
	if channel == "" {
		channel = inferChannel(msg.Contact)
	}

	sender, ok := r.senders[channel]
	if !ok {
		return "", fmt.Errorf("no sender registered for channel %s", channel)
	}

	return sender.Send(ctx, msg)
}

func inferChannel(contact string) string {
	for _, c := range contact {
		if c == '@' {
			return entity.ChannelEmail
		}
	}
	return entity.ChannelSMS
}
