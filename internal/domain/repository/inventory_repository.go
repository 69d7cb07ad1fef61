package repository

import (
	"context"

	"clinic-booking-service/internal/domain/entity"
)

// InventoryRepository defines the interface for inventory lookups.
type InventoryRepository interface {
	FindAll(ctx context.Context) ([]*entity.InventoryItem, error)
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	FindConsumablesByService(ctx context.Context, serviceID string) ([]*entity.ServiceConsumable, error)
}
