package repository

import (
	"context"
	"time"

	"clinic-booking-service/internal/domain/entity"
)

// ReminderRepository defines the interface for reminder persistence.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *entity.Reminder) error
	Update(ctx context.Context, reminder *entity.Reminder) error
	FindPendingByBooking(ctx context.Context, bookingID string) ([]*entity.Reminder, error)
	FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.Reminder, error)
}
