package usecase

import (
	"context"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/logger"
	"clinic-booking-service/templates"
)

// NotificationConsumer sends owner (and for emergencies, provider) messages on
// booking lifecycle events. Send failures are reported to the dispatcher, which
// isolates them; nothing here blocks or rolls back a booking transition.
type NotificationConsumer struct {
	sender repository.MessageSender
	logger logger.Logger
}

// NewNotificationConsumer creates a new notification consumer
func NewNotificationConsumer(sender repository.MessageSender, logger logger.Logger) *NotificationConsumer {
	return &NotificationConsumer{
		sender: sender,
		logger: logger,
	}
}

// Name implements BookingSubscriber
func (c *NotificationConsumer) Name() string {
	return "notification"
}

// OnBookingCreated sends the scheduling notice to the owner, and alerts the
// provider when the booking is an emergency.
func (c *NotificationConsumer) OnBookingCreated(ctx context.Context, booking *entity.Booking, _ entity.Principal) error {
	subject, body := templates.BookingCreated(booking)
	if err := c.sendToOwner(ctx, booking, subject, body); err != nil {
		return err
	}

	if booking.IsEmergency && booking.ProviderEmail != "" {
		subject, body := templates.EmergencyProviderNotice(booking)
		_, err := c.sender.Send(ctx, &repository.OutboundMessage{
			Channel:   entity.ChannelEmail,
			Recipient: booking.ProviderName,
			Contact:   booking.ProviderEmail,
			Subject:   subject,
			Body:      body,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// OnBookingStateChanged sends confirmation and attention notices to the owner.
func (c *NotificationConsumer) OnBookingStateChanged(ctx context.Context, booking *entity.Booking, fromState, toState string, _ entity.Principal) error {
	switch toState {
	case entity.StatusConfirmed:
		subject, body := templates.BookingConfirmed(booking)
		return c.sendToOwner(ctx, booking, subject, body)
	case entity.StatusAttended:
		if fromState == entity.StatusAttended {
			// Closing the attention window, not a new transition.
			return nil
		}
		subject, body := templates.BookingAttended(booking)
		return c.sendToOwner(ctx, booking, subject, body)
	}
	return nil
}

// OnBookingCancelled sends the cancellation notice to the owner.
func (c *NotificationConsumer) OnBookingCancelled(ctx context.Context, booking *entity.Booking, reason string, _ entity.Principal) error {
	subject, body := templates.BookingCancelled(booking, reason)
	return c.sendToOwner(ctx, booking, subject, body)
}

func (c *NotificationConsumer) sendToOwner(ctx context.Context, booking *entity.Booking, subject, body string) error {
	msg := &repository.OutboundMessage{
		Recipient: booking.OwnerName,
		Subject:   subject,
		Body:      body,
	}

	switch {
	case booking.OwnerEmail != "":
		msg.Channel = entity.ChannelEmail
		msg.Contact = booking.OwnerEmail
	case booking.OwnerPhone != "":
		msg.Channel = entity.ChannelSMS
		msg.Contact = booking.OwnerPhone
	default:
		c.logger.Warn("Owner has no contact info, skipping notification",
			"bookingId", booking.ID, "owner", booking.OwnerName)
		return nil
	}

	externalID, err := c.sender.Send(ctx, msg)
	if err != nil {
		return err
	}

	c.logger.Info("Booking notification sent",
		"bookingId", booking.ID, "channel", msg.Channel, "externalId", externalID)
	return nil
}
