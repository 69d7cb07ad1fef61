package usecase

import (
	"context"
	"time"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/cache"
	"clinic-booking-service/pkg/logger"
	"clinic-booking-service/pkg/metrics"

	"github.com/google/uuid"
)

// BookingService orchestrates the booking lifecycle: validation, persistence,
// state transitions and event fan-out. Validation and transition errors surface
// to the caller; subscriber failures never do.
type BookingService struct {
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
	validation  *ValidationChain
	dispatcher  *BookingDispatcher
	cache       *cache.Cache
	logger      logger.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repository.BookingRepository,
	serviceRepo repository.ServiceRepository,
	validation *ValidationChain,
	dispatcher *BookingDispatcher,
	cache *cache.Cache,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		validation:  validation,
		dispatcher:  dispatcher,
		cache:       cache,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
	}
}

// CreateBooking validates and persists a new booking, then broadcasts the
// creation. When the request asks for an already-confirmed booking the
// confirmation happens before the creation event so subscribers see the final
// state.
func (s *BookingService) CreateBooking(ctx context.Context, req *BookingRequest, actor entity.Principal) (*entity.Booking, error) {
	service, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	if req.DurationMinutes == 0 {
		req.DurationMinutes = service.DefaultDurationMinutes
	}
	if req.FinalPrice == 0 {
		req.FinalPrice = service.BasePrice
	}

	start := s.now()
	if err := s.validation.Validate(ctx, req, actor); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ValidationTime.Observe(s.now().Sub(start).Seconds())
	}

	booking := &entity.Booking{
		ID:               uuid.NewString(),
		PatientID:        req.PatientID,
		PatientName:      req.PatientName,
		OwnerName:        req.OwnerName,
		OwnerEmail:       req.OwnerEmail,
		OwnerPhone:       req.OwnerPhone,
		ProviderID:       req.ProviderID,
		ProviderName:     req.ProviderName,
		ProviderEmail:    req.ProviderEmail,
		ServiceID:        service.ID,
		ServiceName:      service.Name,
		Date:             req.Date,
		StartMinute:      req.StartMinute,
		DurationMinutes:  req.DurationMinutes,
		Status:           entity.StatusScheduled,
		Reason:           req.Reason,
		FinalPrice:       req.FinalPrice,
		IsEmergency:      req.IsEmergency,
		IsHouseCall:      req.IsHouseCall,
		HouseCallAddress: req.HouseCallAddress,
	}

	if req.Confirmed {
		if err := booking.Confirm(s.now()); err != nil {
			return nil, err
		}
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.metrics.IncBookingsCreated()
	s.logger.Info("Booking created",
		"bookingId", booking.ID,
		"providerId", booking.ProviderID,
		"date", booking.Date.Format("2006-01-02"),
		"status", booking.Status,
		"actor", actor.AuditName())

	s.dispatcher.NotifyCreated(ctx, booking, actor)
	s.evictDashboard()

	return booking, nil
}

// ConfirmBooking transitions a booking to CONFIRMED.
func (s *BookingService) ConfirmBooking(ctx context.Context, id string, actor entity.Principal) (*entity.Booking, error) {
	return s.transition(ctx, id, actor, "confirm", func(b *entity.Booking) error {
		return b.Confirm(s.now())
	})
}

// AttendBooking transitions a booking to ATTENDED, or closes a dangling
// attention window on a second call.
func (s *BookingService) AttendBooking(ctx context.Context, id string, actor entity.Principal) (*entity.Booking, error) {
	return s.transition(ctx, id, actor, "attend", func(b *entity.Booking) error {
		return b.Attend(s.now())
	})
}

// CancelBooking transitions a booking to CANCELLED and broadcasts the
// cancellation with its reason.
func (s *BookingService) CancelBooking(ctx context.Context, id, reason string, actor entity.Principal) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fromState := booking.Status
	if err := booking.Cancel(reason, actor.AuditName(), s.now()); err != nil {
		return nil, err
	}

	if booking.Status == fromState {
		// Idempotent no-op: nothing persisted, nothing broadcast.
		return booking, nil
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.metrics.IncStateTransition(fromState, booking.Status)
	s.logger.Info("Booking cancelled", "bookingId", booking.ID, "reason", reason, "actor", actor.AuditName())

	s.dispatcher.NotifyStateChanged(ctx, booking, fromState, booking.Status, actor)
	s.dispatcher.NotifyCancelled(ctx, booking, reason, actor)
	s.evictDashboard()

	return booking, nil
}

// CancelUnconfirmed cancels every scheduled booking whose start lies within the
// lead window and was never confirmed. Each cancellation runs the normal cancel
// path, so notifications, audit entries and reminder suppression all fire.
// Failures are isolated per booking. Triggered by a ticker in main.
func (s *BookingService) CancelUnconfirmed(ctx context.Context, lead time.Duration) (int, error) {
	cutoff := s.now().Add(lead)
	pending, err := s.bookingRepo.FindUnconfirmedStartingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, booking := range pending {
		_, err := s.CancelBooking(ctx, booking.ID, "not confirmed in time", entity.Principal{})
		if err != nil {
			s.logger.Error("Failed to auto-cancel unconfirmed booking",
				"bookingId", booking.ID, "error", err)
			continue
		}
		cancelled++
	}

	if cancelled > 0 {
		s.logger.Info("Auto-cancelled unconfirmed bookings", "count", cancelled)
	}
	return cancelled, nil
}

// GetBooking loads one booking.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*entity.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// transition loads, applies a state change and broadcasts it. Idempotent no-ops
// and attention-window closes still persist timestamps but only broadcast when
// the state actually moved.
func (s *BookingService) transition(ctx context.Context, id string, actor entity.Principal, event string, apply func(*entity.Booking) error) (*entity.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fromState := booking.Status
	if err := apply(booking); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	if booking.Status != fromState {
		s.metrics.IncStateTransition(fromState, booking.Status)
		s.logger.Info("Booking state changed",
			"bookingId", booking.ID,
			"event", event,
			"from", fromState,
			"to", booking.Status,
			"actor", actor.AuditName())
		s.dispatcher.NotifyStateChanged(ctx, booking, fromState, booking.Status, actor)
		s.evictDashboard()
	}

	return booking, nil
}

func (s *BookingService) evictDashboard() {
	if s.cache != nil {
		s.cache.EvictPattern("dashboard:*")
	}
}
