package entity

import (
	"time"

	"clinic-booking-service/internal/domain/domainerr"
)

// Booking Status
const (
	StatusScheduled = "SCHEDULED"
	StatusConfirmed = "CONFIRMED"
	StatusAttended  = "ATTENDED"
	StatusCancelled = "CANCELLED"
)

// Booking represents one scheduled clinical encounter between a patient and a provider.
type Booking struct {
	ID               string
	PatientID        string
	PatientName      string
	OwnerName        string
	OwnerEmail       string
	OwnerPhone       string
	ProviderID       string
	ProviderName     string
	ProviderEmail    string
	ServiceID        string
	ServiceName      string
	Date             time.Time // calendar day, midnight UTC
	StartMinute      int       // minutes after midnight
	DurationMinutes  int
	Status           string
	Reason           string
	FinalPrice       float64
	IsEmergency      bool
	IsHouseCall      bool
	HouseCallAddress string

	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	AttentionStart     *time.Time
	AttentionEnd       *time.Time
	CancellationReason string
	CancelledBy        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndMinute returns the exclusive end of the booking interval [StartMinute, EndMinute).
func (b *Booking) EndMinute() int {
	return b.StartMinute + b.DurationMinutes
}

// StartDateTime combines the calendar date and start minute into a point in time.
func (b *Booking) StartDateTime() time.Time {
	return b.Date.Add(time.Duration(b.StartMinute) * time.Minute)
}

// IsPending reports whether the booking is still scheduled or confirmed.
func (b *Booking) IsPending() bool {
	return b.Status == StatusScheduled || b.Status == StatusConfirmed
}

// IsPast reports whether the booking start has already passed.
func (b *Booking) IsPast(now time.Time) bool {
	return b.StartDateTime().Before(now)
}

// Overlaps reports whether two bookings occupy intersecting time intervals.
// Intervals are half-open, so touching endpoints do not overlap.
func (b *Booking) Overlaps(other *Booking) bool {
	return b.StartMinute < other.EndMinute() && other.StartMinute < b.EndMinute()
}

// Confirm moves a scheduled booking to CONFIRMED.
// Confirming an already-confirmed booking is an idempotent no-op.
func (b *Booking) Confirm(now time.Time) error {
	switch b.Status {
	case StatusScheduled:
		b.Status = StatusConfirmed
		b.ConfirmedAt = &now
		return nil
	case StatusConfirmed:
		return nil
	case StatusAttended:
		return &domainerr.InvalidStateTransitionError{From: b.Status, Event: "confirm", Reason: "already attended"}
	case StatusCancelled:
		return &domainerr.InvalidStateTransitionError{From: b.Status, Event: "confirm", Reason: "was cancelled"}
	}
	return &domainerr.InvalidStateTransitionError{From: b.Status, Event: "confirm", Reason: "unknown state"}
}

// Attend moves a confirmed booking to ATTENDED and records the attention start.
// Called again on an attended booking it closes a dangling attention window
// (attention start and stop arrive as two separate calls); otherwise it is a no-op.
func (b *Booking) Attend(now time.Time) error {
	switch b.Status {
	case StatusScheduled:
		return &domainerr.InvalidStateTransitionError{From: b.Status, Event: "attend", Reason: "not yet confirmed"}
	case StatusConfirmed:
		b.Status = StatusAttended
		b.AttentionStart = &now
		return nil
	case StatusAttended:
		if b.AttentionStart != nil && b.AttentionEnd == nil {
			b.AttentionEnd = &now
		}
		return nil
	case StatusCancelled:
		return &domainerr.InvalidStateTransitionError{From: b.Status, Event: "attend", Reason: "was cancelled"}
	}
	return &domainerr.InvalidStateTransitionError{From: b.Status, Event: "attend", Reason: "unknown state"}
}

// Cancel moves a pending booking to CANCELLED and records the reason and actor.
// Cancelling an already-cancelled booking is an idempotent no-op.
func (b *Booking) Cancel(reason, actor string, now time.Time) error {
	switch b.Status {
	case StatusScheduled, StatusConfirmed:
		b.Status = StatusCancelled
		b.CancellationReason = reason
		b.CancelledBy = actor
		b.CancelledAt = &now
		return nil
	case StatusCancelled:
		return nil
	case StatusAttended:
		return &domainerr.InvalidStateTransitionError{From: b.Status, Event: "cancel", Reason: "already attended"}
	}
	return &domainerr.InvalidStateTransitionError{From: b.Status, Event: "cancel", Reason: "unknown state"}
}

// AttentionDurationMinutes returns the real attention duration, or 0 when the
// attention window is not closed yet.
func (b *Booking) AttentionDurationMinutes() int {
	if b.AttentionStart == nil || b.AttentionEnd == nil {
		return 0
	}
	return int(b.AttentionEnd.Sub(*b.AttentionStart).Minutes())
}
