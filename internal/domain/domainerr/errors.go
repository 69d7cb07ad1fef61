package domainerr

import (
	"fmt"
	"time"
)

// ValidationError indicates a malformed or out-of-range field on a booking request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// SchedulingConflictError indicates the requested slot overlaps an existing
// non-cancelled booking for the same provider on the same date.
type SchedulingConflictError struct {
	ProviderID  string
	Date        time.Time
	StartMinute int
	EndMinute   int
}

func (e *SchedulingConflictError) Error() string {
	return fmt.Sprintf("provider %s already has a booking overlapping [%s, %s) on %s",
		e.ProviderID, minuteClock(e.StartMinute), minuteClock(e.EndMinute), e.Date.Format("2006-01-02"))
}

// PermissionDeniedError indicates the acting role may not create this kind of booking.
type PermissionDeniedError struct {
	Role        string
	BookingKind string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("role %s is not allowed to create %s bookings", e.Role, e.BookingKind)
}

// InsufficientStockError indicates a consumable required by the service is short.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s (%s): required %d, available %d",
		e.ItemID, e.ItemName, e.Required, e.Available)
}

// InvalidStateTransitionError indicates an illegal booking state transition.
// It is a business-rule error, not a retryable condition.
type InvalidStateTransitionError struct {
	From   string
	Event  string
	Reason string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s booking in state %s: %s", e.Event, e.From, e.Reason)
}

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func minuteClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
