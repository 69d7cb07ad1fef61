package usecase

import (
	"context"
	"time"

	"clinic-booking-service/internal/domain/domainerr"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/logger"
)

// BookingRequest carries everything needed to validate and create one booking.
type BookingRequest struct {
	PatientID        string
	PatientName      string
	OwnerName        string
	OwnerEmail       string
	OwnerPhone       string
	ProviderID       string
	ProviderName     string
	ProviderEmail    string
	ServiceID        string
	Date             time.Time
	StartMinute      int
	DurationMinutes  int // 0 means use the service default
	Reason           string
	FinalPrice       float64 // 0 means use the service base price
	IsEmergency      bool
	IsHouseCall      bool
	HouseCallAddress string
	Confirmed        bool // create the booking already confirmed
}

func (r *BookingRequest) endMinute() int {
	return r.StartMinute + r.DurationMinutes
}

func (r *BookingRequest) startDateTime() time.Time {
	return r.Date.Add(time.Duration(r.StartMinute) * time.Minute)
}

// BookingValidator is one stage of the validation chain.
type BookingValidator interface {
	Validate(ctx context.Context, req *BookingRequest, actor entity.Principal) error
}

// ValidationChain runs its validators in order and fails fast: the first error
// aborts the chain and later validators never execute.
type ValidationChain struct {
	validators []BookingValidator
	logger     logger.Logger
}

// NewValidationChain builds the fixed pipeline: fields, availability, permission,
// stock.
func NewValidationChain(
	bookingRepo repository.BookingRepository,
	inventoryRepo repository.InventoryRepository,
	logger logger.Logger,
) *ValidationChain {
	return &ValidationChain{
		validators: []BookingValidator{
			&FieldValidator{now: time.Now},
			&AvailabilityValidator{bookingRepo: bookingRepo, logger: logger},
			&PermissionValidator{},
			&StockValidator{inventoryRepo: inventoryRepo},
		},
		logger: logger,
	}
}

// Validate runs the chain.
func (c *ValidationChain) Validate(ctx context.Context, req *BookingRequest, actor entity.Principal) error {
	for _, validator := range c.validators {
		if err := validator.Validate(ctx, req, actor); err != nil {
			return err
		}
	}
	return nil
}

// FieldValidator checks required fields and sane value ranges.
type FieldValidator struct {
	now func() time.Time
}

// Validate implements BookingValidator
func (v *FieldValidator) Validate(_ context.Context, req *BookingRequest, _ entity.Principal) error {
	if req.PatientID == "" {
		return &domainerr.ValidationError{Field: "patientId", Message: "patient is required"}
	}
	if req.ProviderID == "" {
		return &domainerr.ValidationError{Field: "providerId", Message: "provider is required"}
	}
	if req.ServiceID == "" {
		return &domainerr.ValidationError{Field: "serviceId", Message: "service is required"}
	}
	if req.Reason == "" {
		return &domainerr.ValidationError{Field: "reason", Message: "consultation reason is required"}
	}
	if req.Date.IsZero() {
		return &domainerr.ValidationError{Field: "date", Message: "date is required"}
	}
	if req.DurationMinutes <= 0 {
		return &domainerr.ValidationError{Field: "durationMinutes", Message: "duration must be positive"}
	}
	if req.StartMinute < 0 || req.StartMinute >= 24*60 {
		return &domainerr.ValidationError{Field: "startMinute", Message: "start time is out of range"}
	}
	if req.IsHouseCall && req.HouseCallAddress == "" {
		return &domainerr.ValidationError{Field: "houseCallAddress", Message: "address is required for house calls"}
	}
	// Emergencies may be booked for a slot that already started.
	if !req.IsEmergency && req.startDateTime().Before(v.now()) {
		return &domainerr.ValidationError{Field: "date", Message: "booking must not be in the past"}
	}
	return nil
}

// AvailabilityValidator checks the candidate slot against every existing
// non-cancelled booking for the same provider on the same date. This is a
// fast-fail pre-check only: two concurrent requests can both pass it, and the
// partial unique index on (provider_id, date, start_minute) is the authoritative
// backstop at insert time.
type AvailabilityValidator struct {
	bookingRepo repository.BookingRepository
	logger      logger.Logger
}

// Validate implements BookingValidator
func (v *AvailabilityValidator) Validate(ctx context.Context, req *BookingRequest, _ entity.Principal) error {
	existing, err := v.bookingRepo.FindByProviderAndDate(ctx, req.ProviderID, req.Date)
	if err != nil {
		return err
	}

	for _, booking := range existing {
		if booking.Status == entity.StatusCancelled {
			continue
		}
		// Half-open intervals: touching endpoints do not overlap.
		if req.StartMinute < booking.EndMinute() && booking.StartMinute < req.endMinute() {
			v.logger.Warn("Scheduling conflict detected",
				"providerId", req.ProviderID,
				"date", req.Date.Format("2006-01-02"),
				"conflictingBookingId", booking.ID)
			return &domainerr.SchedulingConflictError{
				ProviderID:  req.ProviderID,
				Date:        req.Date,
				StartMinute: req.StartMinute,
				EndMinute:   req.endMinute(),
			}
		}
	}

	return nil
}

// PermissionValidator checks that the acting role may create the requested kind
// of booking.
type PermissionValidator struct{}

// Validate implements BookingValidator
func (v *PermissionValidator) Validate(_ context.Context, req *BookingRequest, actor entity.Principal) error {
	switch actor.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleVet:
		if req.IsHouseCall {
			return &domainerr.PermissionDeniedError{Role: actor.Role, BookingKind: "house-call"}
		}
		return nil
	case entity.RoleReceptionist:
		if req.IsEmergency {
			return &domainerr.PermissionDeniedError{Role: actor.Role, BookingKind: "emergency"}
		}
		return nil
	case entity.RoleAssistant:
		if req.IsEmergency {
			return &domainerr.PermissionDeniedError{Role: actor.Role, BookingKind: "emergency"}
		}
		if req.IsHouseCall {
			return &domainerr.PermissionDeniedError{Role: actor.Role, BookingKind: "house-call"}
		}
		return nil
	}
	return &domainerr.PermissionDeniedError{Role: actor.Role, BookingKind: "any"}
}

// StockValidator checks that every consumable required by the service is
// available in the needed quantity.
type StockValidator struct {
	inventoryRepo repository.InventoryRepository
}

// Validate implements BookingValidator
func (v *StockValidator) Validate(ctx context.Context, req *BookingRequest, _ entity.Principal) error {
	consumables, err := v.inventoryRepo.FindConsumablesByService(ctx, req.ServiceID)
	if err != nil {
		return err
	}

	for _, consumable := range consumables {
		item, err := v.inventoryRepo.GetByID(ctx, consumable.ItemID)
		if err != nil {
			return err
		}
		if item.Quantity < consumable.Required {
			return &domainerr.InsufficientStockError{
				ItemID:    consumable.ItemID,
				ItemName:  consumable.ItemName,
				Required:  consumable.Required,
				Available: item.Quantity,
			}
		}
	}

	return nil
}
