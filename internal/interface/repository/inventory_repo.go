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

// GormInventoryRepository implements the InventoryRepository interface
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository
func NewGormInventoryRepository(db *gorm.DB) repository.InventoryRepository {
	return &GormInventoryRepository{
		db: db,
	}
}

// InventoryItems GORM model for database mapping
type InventoryItems struct {
	ID           string `gorm:"column:id;primaryKey"`
	Name         string `gorm:"column:name"`
	Quantity     int    `gorm:"column:quantity"`
	MinimumStock int    `gorm:"column:minimum_stock"`
	MaximumStock int    `gorm:"column:maximum_stock"`
	Unit         string `gorm:"column:unit"`
	UpdatedAt    time.Time
}

// TableName overrides the default table name
func (InventoryItems) TableName() string {
	return "inventory_items"
}

// ServiceConsumables GORM model linking services to required items
type ServiceConsumables struct {
	ServiceID string `gorm:"column:service_id;primaryKey"`
	ItemID    string `gorm:"column:item_id;primaryKey"`
	Required  int    `gorm:"column:required_quantity"`
}

// TableName overrides the default table name
func (ServiceConsumables) TableName() string {
	return "service_consumables"
}

func toInventoryEntity(m *InventoryItems) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:           m.ID,
		Name:         m.Name,
		Quantity:     m.Quantity,
		MinimumStock: m.MinimumStock,
		MaximumStock: m.MaximumStock,
		Unit:         m.Unit,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FindAll returns every inventory row for the stock sweep
func (r *GormInventoryRepository) FindAll(ctx context.Context) ([]*entity.InventoryItem, error) {
	var models []InventoryItems
	result := r.db.WithContext(ctx).Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*entity.InventoryItem, 0, len(models))
	for i := range models {
		items = append(items, toInventoryEntity(&models[i]))
	}

	return items, nil
}

// GetByID finds one inventory item
func (r *GormInventoryRepository) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	var model InventoryItems
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &domainerr.NotFoundError{Entity: "inventory item", ID: id}
		}
		return nil, result.Error
	}

	return toInventoryEntity(&model), nil
}

// FindConsumablesByService returns the consumables a service requires, joined
// with the item name for error reporting
func (r *GormInventoryRepository) FindConsumablesByService(ctx context.Context, serviceID string) ([]*entity.ServiceConsumable, error) {
	type row struct {
		ServiceID string
		ItemID    string
		Required  int
		ItemName  string
	}
	var rows []row

	result := r.db.WithContext(ctx).
		Table("service_consumables").
		Select("service_consumables.service_id, service_consumables.item_id, service_consumables.required_quantity as required, inventory_items.name as item_name").
		Joins("join inventory_items on inventory_items.id = service_consumables.item_id").
		Where("service_consumables.service_id = ?", serviceID).
		Scan(&rows)

	if result.Error != nil {
		return nil, result.Error
	}

	consumables := make([]*entity.ServiceConsumable, 0, len(rows))
	for _, r := range rows {
		consumables = append(consumables, &entity.ServiceConsumable{
			ServiceID: r.ServiceID,
			ItemID:    r.ItemID,
			ItemName:  r.ItemName,
			Required:  r.Required,
		})
	}

	return consumables, nil
}
