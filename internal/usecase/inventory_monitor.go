package usecase

import (
	"context"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/logger"
	"clinic-booking-service/pkg/metrics"
	"clinic-booking-service/templates"
)

// InventoryMonitor re-checks consumables when bookings are created and runs the
// periodic stock sweep. Shortfalls found here are alerted, never failed: the
// stock validator in the validation chain is the gate, this consumer is
// defense-in-depth behind it.
type InventoryMonitor struct {
	inventoryRepo repository.InventoryRepository
	sender        repository.MessageSender
	alertName     string
	alertEmail    string
	logger        logger.Logger
	metrics       *metrics.Metrics
}

// NewInventoryMonitor creates a new inventory monitor consumer
func NewInventoryMonitor(
	inventoryRepo repository.InventoryRepository,
	sender repository.MessageSender,
	alertName, alertEmail string,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *InventoryMonitor {
	return &InventoryMonitor{
		inventoryRepo: inventoryRepo,
		sender:        sender,
		alertName:     alertName,
		alertEmail:    alertEmail,
		logger:        logger,
		metrics:       metrics,
	}
}

// Name implements BookingSubscriber
func (m *InventoryMonitor) Name() string {
	return "inventory-monitor"
}

// OnBookingCreated re-checks that the consumables the service needs are still
// available and alerts on any shortfall.
func (m *InventoryMonitor) OnBookingCreated(ctx context.Context, booking *entity.Booking, _ entity.Principal) error {
	consumables, err := m.inventoryRepo.FindConsumablesByService(ctx, booking.ServiceID)
	if err != nil {
		return err
	}

	for _, consumable := range consumables {
		item, err := m.inventoryRepo.GetByID(ctx, consumable.ItemID)
		if err != nil {
			m.logger.Error("Failed to re-check consumable",
				"bookingId", booking.ID, "itemId", consumable.ItemID, "error", err)
			continue
		}
		if item.Quantity < consumable.Required {
			m.logger.Warn("Consumable ran short after validation",
				"bookingId", booking.ID,
				"itemId", item.ID,
				"required", consumable.Required,
				"available", item.Quantity)
			m.alert(ctx, item)
		}
	}

	return nil
}

// OnBookingStateChanged implements BookingSubscriber; state changes do not touch
// inventory.
func (m *InventoryMonitor) OnBookingStateChanged(_ context.Context, _ *entity.Booking, _, _ string, _ entity.Principal) error {
	return nil
}

// OnBookingCancelled implements BookingSubscriber; cancellations do not touch
// inventory.
func (m *InventoryMonitor) OnBookingCancelled(_ context.Context, _ *entity.Booking, _ string, _ entity.Principal) error {
	return nil
}

// MonitorStock scans every inventory row and sends one alert per low, critical
// or exhausted row. Failures are isolated per row so that one failing alert does
// not suppress the others. Triggered by a ticker in main.
func (m *InventoryMonitor) MonitorStock(ctx context.Context) error {
	items, err := m.inventoryRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	alerted := 0
	for _, item := range items {
		if item.StockLevel() == entity.StockNormal {
			continue
		}
		if m.alert(ctx, item) {
			alerted++
		}
	}

	m.logger.Info("Stock monitoring completed", "items", len(items), "alerts", alerted)
	return nil
}

func (m *InventoryMonitor) alert(ctx context.Context, item *entity.InventoryItem) bool {
	level := item.StockLevel()
	subject, body := templates.StockAlert(item)

	_, err := m.sender.Send(ctx, &repository.OutboundMessage{
		Channel:   entity.ChannelEmail,
		Recipient: m.alertName,
		Contact:   m.alertEmail,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		m.logger.Error("Failed to send stock alert",
			"itemId", item.ID, "level", level, "error", err)
		return false
	}

	m.metrics.IncStockAlert(level)
	m.logger.Info("Stock alert sent", "itemId", item.ID, "level", level, "quantity", item.Quantity)
	return true
}
