package persistence

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgresDB opens the PostgreSQL connection used for bookings, reminders,
// inventory and the service catalogue.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	return db, nil
}

// EnsureBookingSlotIndex creates the partial unique index that backstops the
// availability pre-check. Two concurrent requests can both pass the in-process
// overlap check; the insert of the loser fails with a unique violation which the
// booking repository surfaces as a scheduling conflict.
func EnsureBookingSlotIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uq_booking_provider_slot
		ON bookings (provider_id, date, start_minute)
		WHERE status <> 'CANCELLED'
	`).Error
}
