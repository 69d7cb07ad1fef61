package usecase

import (
	"context"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/pkg/logger"
	"clinic-booking-service/pkg/metrics"
)

// BookingSubscriber receives booking lifecycle events. The acting principal is
// threaded explicitly rather than read from ambient context. Implementations
// must not assume their errors reach the caller; the dispatcher isolates
// failures.
type BookingSubscriber interface {
	Name() string
	OnBookingCreated(ctx context.Context, booking *entity.Booking, actor entity.Principal) error
	OnBookingStateChanged(ctx context.Context, booking *entity.Booking, fromState, toState string, actor entity.Principal) error
	OnBookingCancelled(ctx context.Context, booking *entity.Booking, reason string, actor entity.Principal) error
}

// BookingDispatcher fans booking events out to every subscriber, synchronously
// and in subscription order. A failing subscriber is logged and skipped; it never
// prevents the remaining subscribers from running and never reaches the caller.
type BookingDispatcher struct {
	subscribers []BookingSubscriber
	logger      logger.Logger
	metrics     *metrics.Metrics
}

// NewBookingDispatcher creates a new booking event dispatcher
func NewBookingDispatcher(logger logger.Logger, metrics *metrics.Metrics) *BookingDispatcher {
	return &BookingDispatcher{
		subscribers: make([]BookingSubscriber, 0),
		logger:      logger,
		metrics:     metrics,
	}
}

// Subscribe appends a subscriber. Nil subscribers and duplicates (by name) are
// ignored.
func (d *BookingDispatcher) Subscribe(subscriber BookingSubscriber) {
	if subscriber == nil {
		return
	}
	for _, existing := range d.subscribers {
		if existing.Name() == subscriber.Name() {
			return
		}
	}
	d.subscribers = append(d.subscribers, subscriber)
	d.logger.Info("Subscribed booking consumer", "subscriber", subscriber.Name())
}

// Subscribers returns the current subscription order.
func (d *BookingDispatcher) Subscribers() []string {
	names := make([]string, 0, len(d.subscribers))
	for _, s := range d.subscribers {
		names = append(names, s.Name())
	}
	return names
}

// NotifyCreated broadcasts a booking creation.
func (d *BookingDispatcher) NotifyCreated(ctx context.Context, booking *entity.Booking, actor entity.Principal) {
	d.metrics.IncEventDispatched("created")
	for _, subscriber := range d.subscribers {
		if err := subscriber.OnBookingCreated(ctx, booking, actor); err != nil {
			d.isolate(subscriber, "created", booking.ID, err)
		}
	}
}

// NotifyStateChanged broadcasts a booking state transition.
func (d *BookingDispatcher) NotifyStateChanged(ctx context.Context, booking *entity.Booking, fromState, toState string, actor entity.Principal) {
	d.metrics.IncEventDispatched("state_changed")
	for _, subscriber := range d.subscribers {
		if err := subscriber.OnBookingStateChanged(ctx, booking, fromState, toState, actor); err != nil {
			d.isolate(subscriber, "state_changed", booking.ID, err)
		}
	}
}

// NotifyCancelled broadcasts a booking cancellation.
func (d *BookingDispatcher) NotifyCancelled(ctx context.Context, booking *entity.Booking, reason string, actor entity.Principal) {
	d.metrics.IncEventDispatched("cancelled")
	for _, subscriber := range d.subscribers {
		if err := subscriber.OnBookingCancelled(ctx, booking, reason, actor); err != nil {
			d.isolate(subscriber, "cancelled", booking.ID, err)
		}
	}
}

func (d *BookingDispatcher) isolate(subscriber BookingSubscriber, event, bookingID string, err error) {
	d.metrics.IncSubscriberFailure(subscriber.Name())
	d.logger.Error("Booking subscriber failed",
		"subscriber", subscriber.Name(),
		"event", event,
		"bookingId", bookingID,
		"error", err)
}
