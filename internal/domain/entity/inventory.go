package entity

import "time"

// Stock levels reported by the inventory monitor.
const (
	StockNormal    = "NORMAL"
	StockLow       = "LOW"
	StockCritical  = "CRITICAL"
	StockExhausted = "EXHAUSTED"
)

// InventoryItem represents one consumable row in the clinic inventory.
type InventoryItem struct {
	ID           string
	Name         string
	Quantity     int
	MinimumStock int
	MaximumStock int
	Unit         string
	UpdatedAt    time.Time
}

// StockLevel classifies the current quantity against the minimum.
// Exhausted takes precedence over critical, critical over low.
func (i *InventoryItem) StockLevel() string {
	switch {
	case i.Quantity == 0:
		return StockExhausted
	case i.Quantity <= i.MinimumStock/2:
		return StockCritical
	case i.Quantity <= i.MinimumStock:
		return StockLow
	}
	return StockNormal
}

// ServiceConsumable links a clinical service to a required inventory quantity.
type ServiceConsumable struct {
	ServiceID string
	ItemID    string
	ItemName  string
	Required  int
}
