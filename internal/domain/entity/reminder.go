package entity

import "time"

// Reminder tiers, distinguished only by lead time before the appointment.
const (
	TierInitial  = "INITIAL"  // configured base lead, e.g. 24h before
	TierFinal    = "FINAL"    // 2h before
	TierImminent = "IMMINENT" // 1h before
)

// Reminder channels
const (
	ChannelEmail = "EMAIL"
	ChannelSMS   = "SMS"
)

// DefaultMaxSendAttempts is the number of delivery attempts before a reminder
// is permanently abandoned.
const DefaultMaxSendAttempts = 3

// Reminder is one scheduled outbound message tied to exactly one booking and one
// lead-time tier.
type Reminder struct {
	ID               string
	BookingID        string
	Tier             string
	Channel          string
	Recipient        string
	RecipientContact string
	Message          string
	ScheduledSendAt  time.Time
	Sent             bool
	SentAt           *time.Time
	Attempts         int
	MaxAttempts      int
	LastError        string
	ExternalID       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MarkSent records a successful (or suppressed) send.
func (r *Reminder) MarkSent(externalID string, now time.Time) {
	r.Sent = true
	r.SentAt = &now
	r.ExternalID = externalID
	r.LastError = ""
}

// RecordFailure bumps the attempt counter and keeps the last error for the sweep.
func (r *Reminder) RecordFailure(err error) {
	r.Attempts++
	if err != nil {
		r.LastError = err.Error()
	}
}

// CanRetry reports whether the reminder is still eligible for delivery.
func (r *Reminder) CanRetry() bool {
	return !r.Sent && r.Attempts < r.MaxAttempts
}

// IsDue reports whether the scheduled send time has passed for an unsent reminder.
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.Sent && !r.ScheduledSendAt.After(now)
}
