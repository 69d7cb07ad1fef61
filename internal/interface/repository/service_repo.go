package repository

import (
	"context"
	"errors"
	"time"

	"clinic-booking-service/internal/domain/domainerr"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormServiceRepository implements the ServiceRepository interface
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GORM service catalogue repository
func NewGormServiceRepository(db *gorm.DB) repository.ServiceRepository {
	return &GormServiceRepository{
		db: db,
	}
}

// ClinicServices GORM model for database mapping
type ClinicServices struct {
	ID                     string  `gorm:"column:id;primaryKey"`
	Name                   string  `gorm:"column:name"`
	DefaultDurationMinutes int     `gorm:"column:default_duration_minutes"`
	BasePrice              float64 `gorm:"column:base_price"`
	RequiresConsumables    bool    `gorm:"column:requires_consumables"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// TableName overrides the default table name
func (ClinicServices) TableName() string {
	return "clinic_services"
}

// GetByID finds a clinical service by id
func (r *GormServiceRepository) GetByID(ctx context.Context, id string) (*entity.ClinicService, error) {
	var model ClinicServices
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &domainerr.NotFoundError{Entity: "service", ID: id}
		}
		return nil, result.Error
	}

	return &entity.ClinicService{
		ID:                     model.ID,
		Name:                   model.Name,
		DefaultDurationMinutes: model.DefaultDurationMinutes,
		BasePrice:              model.BasePrice,
		RequiresConsumables:    model.RequiresConsumables,
		CreatedAt:              model.CreatedAt,
		UpdatedAt:              model.UpdatedAt,
	}, nil
}
