package entity

import "time"

// ClinicService is a catalogued type of attention with a default duration and price.
type ClinicService struct {
	ID                     string
	Name                   string
	DefaultDurationMinutes int
	BasePrice              float64
	RequiresConsumables    bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
