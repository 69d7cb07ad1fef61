package repository

import (
	"context"

	"clinic-booking-service/internal/domain/entity"
)

// AuditRepository defines the interface for the append-only audit sink.
type AuditRepository interface {
	Record(ctx context.Context, entry *entity.AuditEntry) error
	FindByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditEntry, error)
}
