package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/logger"
	"clinic-booking-service/pkg/metrics"
	"clinic-booking-service/templates"

	"github.com/google/uuid"
)

// ReminderSchedulerConfig holds the reminder settings read from configuration.
type ReminderSchedulerConfig struct {
	Enabled   bool
	LeadHours int
}

// ReminderScheduler persists reminder rows when a booking is confirmed and
// suppresses them when the booking is cancelled or attended. Delivery itself
// happens from SweepDue, driven by an external ticker.
type ReminderScheduler struct {
	reminderRepo repository.ReminderRepository
	sender       repository.MessageSender
	config       ReminderSchedulerConfig
	logger       logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewReminderScheduler creates a new reminder scheduler consumer
func NewReminderScheduler(
	reminderRepo repository.ReminderRepository,
	sender repository.MessageSender,
	config ReminderSchedulerConfig,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *ReminderScheduler {
	return &ReminderScheduler{
		reminderRepo: reminderRepo,
		sender:       sender,
		config:       config,
		logger:       logger,
		metrics:      metrics,
		now:          time.Now,
	}
}

// Name implements BookingSubscriber
func (s *ReminderScheduler) Name() string {
	return "reminder-scheduler"
}

// OnBookingCreated schedules reminders when the booking is created already
// confirmed.
func (s *ReminderScheduler) OnBookingCreated(ctx context.Context, booking *entity.Booking, _ entity.Principal) error {
	if booking.Status == entity.StatusConfirmed {
		return s.scheduleReminders(ctx, booking)
	}
	return nil
}

// OnBookingStateChanged schedules reminders on CONFIRMED and suppresses pending
// ones on ATTENDED.
func (s *ReminderScheduler) OnBookingStateChanged(ctx context.Context, booking *entity.Booking, fromState, toState string, _ entity.Principal) error {
	switch toState {
	case entity.StatusConfirmed:
		if fromState == entity.StatusConfirmed {
			return nil
		}
		return s.scheduleReminders(ctx, booking)
	case entity.StatusAttended:
		return s.suppressReminders(ctx, booking.ID)
	}
	return nil
}

// OnBookingCancelled suppresses every pending reminder for the booking.
func (s *ReminderScheduler) OnBookingCancelled(ctx context.Context, booking *entity.Booking, _ string, _ entity.Principal) error {
	return s.suppressReminders(ctx, booking.ID)
}

// leadTiers computes the tiers that fit this appointment. The base tier uses the
// configured lead; the 2h and 1h tiers are added when the appointment is far
// enough out that their send time is still in the future and shorter than the
// base lead.
func (s *ReminderScheduler) leadTiers(appointmentAt time.Time) map[string]time.Duration {
	baseLead := time.Duration(s.config.LeadHours) * time.Hour
	now := s.now()

	tiers := make(map[string]time.Duration)
	if appointmentAt.Add(-baseLead).After(now) {
		tiers[entity.TierInitial] = baseLead
	}
	for tier, lead := range map[string]time.Duration{
		entity.TierFinal:    2 * time.Hour,
		entity.TierImminent: 1 * time.Hour,
	} {
		if lead < baseLead && appointmentAt.Add(-lead).After(now) {
			tiers[tier] = lead
		}
	}
	return tiers
}

func (s *ReminderScheduler) scheduleReminders(ctx context.Context, booking *entity.Booking) error {
	if !s.config.Enabled {
		s.logger.Debug("Reminders disabled, skipping", "bookingId", booking.ID)
		return nil
	}

	contact, channel := reminderContact(booking)
	if contact == "" {
		s.logger.Warn("Owner has no contact info, skipping reminders", "bookingId", booking.ID)
		return nil
	}

	subject, body := templates.Reminder(booking)
	appointmentAt := booking.StartDateTime()

	var firstErr error
	for tier, lead := range s.leadTiers(appointmentAt) {
		reminder := &entity.Reminder{
			ID:               uuid.NewString(),
			BookingID:        booking.ID,
			Tier:             tier,
			Channel:          channel,
			Recipient:        booking.OwnerName,
			RecipientContact: contact,
			Message:          fmt.Sprintf("%s\n\n%s", subject, body),
			ScheduledSendAt:  appointmentAt.Add(-lead),
			MaxAttempts:      entity.DefaultMaxSendAttempts,
		}

		if err := s.reminderRepo.Create(ctx, reminder); err != nil {
			s.logger.Error("Failed to persist reminder",
				"bookingId", booking.ID, "tier", tier, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		s.metrics.IncRemindersScheduled()
		s.logger.Info("Reminder scheduled",
			"bookingId", booking.ID, "tier", tier,
			"sendAt", reminder.ScheduledSendAt.Format(time.RFC3339))
	}

	return firstErr
}

// suppressReminders marks every pending reminder sent without delivering it.
// The sent flag doubles as "do not process again" for the sweep.
func (s *ReminderScheduler) suppressReminders(ctx context.Context, bookingID string) error {
	pending, err := s.reminderRepo.FindPendingByBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	var firstErr error
	for _, reminder := range pending {
		reminder.MarkSent("", s.now())
		if err := s.reminderRepo.Update(ctx, reminder); err != nil {
			s.logger.Error("Failed to suppress reminder",
				"reminderId", reminder.ID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.metrics.IncRemindersSuppressed()
	}

	if len(pending) > 0 {
		s.logger.Info("Suppressed pending reminders", "bookingId", bookingID, "count", len(pending))
	}
	return firstErr
}

// Send delivers one reminder, tracking attempts and the last error. Once the
// attempt budget is exhausted the reminder is permanently abandoned.
func (s *ReminderScheduler) Send(ctx context.Context, reminder *entity.Reminder) error {
	if reminder.Sent {
		return nil
	}
	if !reminder.CanRetry() {
		return fmt.Errorf("reminder %s abandoned after %d attempts", reminder.ID, reminder.Attempts)
	}

	externalID, err := s.sender.Send(ctx, &repository.OutboundMessage{
		Channel:   reminder.Channel,
		Recipient: reminder.Recipient,
		Contact:   reminder.RecipientContact,
		Subject:   "Appointment reminder",
		Body:      reminder.Message,
	})
	if err != nil {
		reminder.RecordFailure(err)
		if updateErr := s.reminderRepo.Update(ctx, reminder); updateErr != nil {
			s.logger.Error("Failed to record reminder failure",
				"reminderId", reminder.ID, "error", updateErr)
		}
		return err
	}

	reminder.Attempts++
	reminder.MarkSent(externalID, s.now())
	if err := s.reminderRepo.Update(ctx, reminder); err != nil {
		return err
	}

	s.metrics.IncRemindersSent()
	s.logger.Info("Reminder sent", "reminderId", reminder.ID, "externalId", externalID)
	return nil
}

// SweepDue delivers every due reminder, isolating failures per row. Triggered
// by a ticker in main.
func (s *ReminderScheduler) SweepDue(ctx context.Context) error {
	due, err := s.reminderRepo.FindDue(ctx, s.now(), 100)
	if err != nil {
		return err
	}

	for _, reminder := range due {
		if err := s.Send(ctx, reminder); err != nil {
			s.logger.Error("Failed to send due reminder",
				"reminderId", reminder.ID,
				"attempts", reminder.Attempts,
				"error", err)
			// Continue with the next reminder
		}
	}

	return nil
}

func reminderContact(booking *entity.Booking) (contact, channel string) {
	if booking.OwnerEmail != "" {
		return booking.OwnerEmail, entity.ChannelEmail
	}
	if booking.OwnerPhone != "" {
		return booking.OwnerPhone, entity.ChannelSMS
	}
	return "", ""
}
