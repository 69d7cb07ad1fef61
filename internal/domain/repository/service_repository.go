package repository

import (
	"context"

	"clinic-booking-service/internal/domain/entity"
)

// ServiceRepository defines the interface for the clinical service catalogue.
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ClinicService, error)
}
