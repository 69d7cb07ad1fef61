package repository

import (
	"context"
	"time"

	"clinic-booking-service/internal/domain/entity"
)

// BookingRepository defines the interface for booking persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	FindByProviderAndDate(ctx context.Context, providerID string, date time.Time) ([]*entity.Booking, error)
	FindByOwner(ctx context.Context, ownerName string) ([]*entity.Booking, error)
	CountByStatusAndDate(ctx context.Context, date time.Time) (map[string]int64, error)
	FindUnconfirmedStartingBefore(ctx context.Context, cutoff time.Time) ([]*entity.Booking, error)
}
