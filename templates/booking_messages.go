package templates

import (
	"fmt"

	"clinic-booking-service/internal/domain/entity"
)

const bookingCreatedBody = `Hello %s,

An appointment for %s has been scheduled.

Service:  %s
Provider: %s
Date:     %s
Time:     %s

Reply to this message or call the clinic to confirm.`

const bookingConfirmedBody = `Hello %s,

Your appointment for %s on %s at %s is confirmed.

Service:  %s
Provider: %s

We look forward to seeing you.`

const bookingAttendedBody = `Hello %s,

Thank you for visiting us today with %s.

If you have any questions about the attention received, contact the clinic.`

const bookingCancelledBody = `Hello %s,

Your appointment for %s on %s at %s has been cancelled.

Reason: %s

Contact the clinic to reschedule.`

const emergencyProviderBody = `Dr. %s,

An EMERGENCY appointment has been scheduled on your agenda.

Patient:  %s (owner: %s)
Date:     %s
Time:     %s
Reason:   %s`

const reminderBody = `Hello %s,

This is a reminder of the upcoming appointment for %s.

Service:  %s
Provider: %s
Date:     %s
Time:     %s

If you cannot attend, please cancel ahead of time.`

const stockAlertBody = `Stock alert: %s

Item:            %s
Level:           %s
Quantity:        %d
Minimum stock:   %d

Please review the inventory and restock if needed.`

func clock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// BookingCreated renders the owner message for a new booking.
func BookingCreated(b *entity.Booking) (subject, body string) {
	subject = fmt.Sprintf("Appointment scheduled for %s", b.PatientName)
	body = fmt.Sprintf(bookingCreatedBody,
		b.OwnerName, b.PatientName, b.ServiceName, b.ProviderName,
		b.Date.Format("2006-01-02"), clock(b.StartMinute))
	return subject, body
}

// BookingConfirmed renders the owner message for a confirmed booking.
func BookingConfirmed(b *entity.Booking) (subject, body string) {
	subject = fmt.Sprintf("Appointment confirmed for %s", b.PatientName)
	body = fmt.Sprintf(bookingConfirmedBody,
		b.OwnerName, b.PatientName, b.Date.Format("2006-01-02"), clock(b.StartMinute),
		b.ServiceName, b.ProviderName)
	return subject, body
}

// BookingAttended renders the owner message after an attention.
func BookingAttended(b *entity.Booking) (subject, body string) {
	subject = fmt.Sprintf("Thank you for your visit, %s", b.OwnerName)
	body = fmt.Sprintf(bookingAttendedBody, b.OwnerName, b.PatientName)
	return subject, body
}

// BookingCancelled renders the owner message for a cancellation.
func BookingCancelled(b *entity.Booking, reason string) (subject, body string) {
	subject = fmt.Sprintf("Appointment cancelled for %s", b.PatientName)
	body = fmt.Sprintf(bookingCancelledBody,
		b.OwnerName, b.PatientName, b.Date.Format("2006-01-02"), clock(b.StartMinute), reason)
	return subject, body
}

// EmergencyProviderNotice renders the provider message for a new emergency booking.
func EmergencyProviderNotice(b *entity.Booking) (subject, body string) {
	subject = fmt.Sprintf("EMERGENCY appointment scheduled: %s", b.PatientName)
	body = fmt.Sprintf(emergencyProviderBody,
		b.ProviderName, b.PatientName, b.OwnerName,
		b.Date.Format("2006-01-02"), clock(b.StartMinute), b.Reason)
	return subject, body
}

// Reminder renders the reminder message for one tier.
func Reminder(b *entity.Booking) (subject, body string) {
	subject = fmt.Sprintf("Appointment reminder for %s", b.PatientName)
	body = fmt.Sprintf(reminderBody,
		b.OwnerName, b.PatientName, b.ServiceName, b.ProviderName,
		b.Date.Format("2006-01-02"), clock(b.StartMinute))
	return subject, body
}

// StockAlert renders one inventory alert for a low/critical/exhausted row.
func StockAlert(item *entity.InventoryItem) (subject, body string) {
	level := item.StockLevel()
	subject = fmt.Sprintf("Stock alert (%s): %s", level, item.Name)
	body = fmt.Sprintf(stockAlertBody, item.Name, item.Name, level, item.Quantity, item.MinimumStock)
	return subject, body
}
