package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/logger"
)

// AuditConsumer writes one immutable audit entry per booking lifecycle event.
// Unauthenticated or anonymous actors are recorded as SYSTEM.
type AuditConsumer struct {
	auditRepo repository.AuditRepository
	logger    logger.Logger
	now       func() time.Time
}

// NewAuditConsumer creates a new audit consumer
func NewAuditConsumer(auditRepo repository.AuditRepository, logger logger.Logger) *AuditConsumer {
	return &AuditConsumer{
		auditRepo: auditRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Name implements BookingSubscriber
func (c *AuditConsumer) Name() string {
	return "audit"
}

// OnBookingCreated records a CREATE entry.
func (c *AuditConsumer) OnBookingCreated(ctx context.Context, booking *entity.Booking, actor entity.Principal) error {
	detail := fmt.Sprintf("booking created: patient=%s provider=%s service=%s date=%s",
		booking.PatientName, booking.ProviderName, booking.ServiceName,
		booking.Date.Format("2006-01-02"))
	return c.record(ctx, entity.AuditActionCreate, booking.ID, actor, detail)
}

// OnBookingStateChanged records a STATE_CHANGE entry.
func (c *AuditConsumer) OnBookingStateChanged(ctx context.Context, booking *entity.Booking, fromState, toState string, actor entity.Principal) error {
	detail := fmt.Sprintf("state changed: %s -> %s", fromState, toState)
	return c.record(ctx, entity.AuditActionStateChange, booking.ID, actor, detail)
}

// OnBookingCancelled records a CANCEL entry carrying the cancellation reason.
func (c *AuditConsumer) OnBookingCancelled(ctx context.Context, booking *entity.Booking, reason string, actor entity.Principal) error {
	detail := fmt.Sprintf("booking cancelled: reason=%s", reason)
	return c.record(ctx, entity.AuditActionCancel, booking.ID, actor, detail)
}

func (c *AuditConsumer) record(ctx context.Context, action, bookingID string, actor entity.Principal, detail string) error {
	entry := &entity.AuditEntry{
		Action:     action,
		EntityType: "Booking",
		EntityID:   bookingID,
		Actor:      actor.AuditName(),
		Detail:     detail,
		Timestamp:  c.now(),
	}

	if err := c.auditRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	c.logger.Debug("Audit entry recorded",
		"action", action, "entityId", bookingID, "actor", entry.Actor)
	return nil
}
