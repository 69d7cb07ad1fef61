package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking-service/internal/domain/domainerr"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/pkg/cache"
	"clinic-booking-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingServiceFixture struct {
	service       *BookingService
	bookingRepo   *memBookingRepo
	inventoryRepo *memInventoryRepo
	subscriber    *recordingSubscriber
	cache         *cache.Cache
}

func newBookingServiceFixture(t *testing.T) *bookingServiceFixture {
	t.Helper()

	bookingRepo := newMemBookingRepo()
	inventoryRepo := newMemInventoryRepo()
	serviceRepo := newMemServiceRepo(&entity.ClinicService{
		ID:                     "svc-1",
		Name:                   "General consultation",
		DefaultDurationMinutes: 30,
		BasePrice:              45,
	})

	dispatcher := NewBookingDispatcher(logger.NewNop(), nil)
	subscriber := &recordingSubscriber{name: "recorder"}
	dispatcher.Subscribe(subscriber)

	chain := testChain(bookingRepo, inventoryRepo)

	c := cache.NewCache(time.Minute)
	svc := NewBookingService(bookingRepo, serviceRepo, chain, dispatcher, c, logger.NewNop(), nil)
	svc.now = func() time.Time { return fixedNow }

	return &bookingServiceFixture{
		service:       svc,
		bookingRepo:   bookingRepo,
		inventoryRepo: inventoryRepo,
		subscriber:    subscriber,
		cache:         c,
	}
}

var admin = entity.Principal{Name: "ana", Role: entity.RoleAdmin}

func TestCreateBookingAppliesServiceDefaults(t *testing.T) {
	f := newBookingServiceFixture(t)

	req := validRequest()
	req.DurationMinutes = 0
	req.FinalPrice = 0

	booking, err := f.service.CreateBooking(context.Background(), req, admin)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, entity.StatusScheduled, booking.Status)
	assert.Equal(t, 30, booking.DurationMinutes)
	assert.Equal(t, 45.0, booking.FinalPrice)
	assert.Equal(t, "General consultation", booking.ServiceName)

	stored, err := f.bookingRepo.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking, stored)
	assert.Equal(t, []string{"created:" + booking.ID}, f.subscriber.events)
}

func TestCreateBookingKeepsExplicitDurationAndPrice(t *testing.T) {
	f := newBookingServiceFixture(t)

	req := validRequest()
	req.DurationMinutes = 45
	req.FinalPrice = 60

	booking, err := f.service.CreateBooking(context.Background(), req, admin)
	require.NoError(t, err)
	assert.Equal(t, 45, booking.DurationMinutes)
	assert.Equal(t, 60.0, booking.FinalPrice)
}

func TestCreateBookingRejectsValidationFailure(t *testing.T) {
	f := newBookingServiceFixture(t)

	req := validRequest()
	req.Reason = ""

	_, err := f.service.CreateBooking(context.Background(), req, admin)

	var vErr *domainerr.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, f.bookingRepo.bookings)
	assert.Empty(t, f.subscriber.events)
}

func TestCreateBookingRejectsOverlappingSlot(t *testing.T) {
	f := newBookingServiceFixture(t)

	_, err := f.service.CreateBooking(context.Background(), validRequest(), admin)
	require.NoError(t, err)

	second := validRequest()
	second.StartMinute = 10*60 + 15

	_, err = f.service.CreateBooking(context.Background(), second, admin)

	var conflict *domainerr.SchedulingConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Len(t, f.bookingRepo.bookings, 1)
}

func TestCreateBookingConfirmedUpfront(t *testing.T) {
	f := newBookingServiceFixture(t)

	req := validRequest()
	req.Confirmed = true

	booking, err := f.service.CreateBooking(context.Background(), req, admin)
	require.NoError(t, err)

	// Subscribers see the final state in a single creation event.
	assert.Equal(t, entity.StatusConfirmed, booking.Status)
	require.NotNil(t, booking.ConfirmedAt)
	assert.Equal(t, []string{"created:" + booking.ID}, f.subscriber.events)
}

func TestConfirmBookingBroadcastsOnce(t *testing.T) {
	f := newBookingServiceFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), validRequest(), admin)
	require.NoError(t, err)

	confirmed, err := f.service.ConfirmBooking(context.Background(), booking.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, confirmed.Status)

	// Idempotent second confirm: no state change, no second broadcast.
	_, err = f.service.ConfirmBooking(context.Background(), booking.ID, admin)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"created:" + booking.ID,
		"state:" + booking.ID + ":SCHEDULED->CONFIRMED",
	}, f.subscriber.events)
}

func TestAttendBookingClosesAttentionWindowQuietly(t *testing.T) {
	f := newBookingServiceFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	_, err = f.service.ConfirmBooking(context.Background(), booking.ID, admin)
	require.NoError(t, err)

	attended, err := f.service.AttendBooking(context.Background(), booking.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAttended, attended.Status)
	require.NotNil(t, attended.AttentionStart)
	assert.Nil(t, attended.AttentionEnd)

	// Second call closes the window without broadcasting a transition.
	closed, err := f.service.AttendBooking(context.Background(), booking.ID, admin)
	require.NoError(t, err)
	require.NotNil(t, closed.AttentionEnd)

	assert.Equal(t, []string{
		"created:" + booking.ID,
		"state:" + booking.ID + ":SCHEDULED->CONFIRMED",
		"state:" + booking.ID + ":CONFIRMED->ATTENDED",
	}, f.subscriber.events)
}

func TestAttendUnconfirmedBookingFails(t *testing.T) {
	f := newBookingServiceFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), validRequest(), admin)
	require.NoError(t, err)

	_, err = f.service.AttendBooking(context.Background(), booking.ID, admin)

	var transitionErr *domainerr.InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, entity.StatusScheduled, transitionErr.From)
}

func TestCancelBookingBroadcastsStateChangeAndCancellation(t *testing.T) {
	f := newBookingServiceFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), validRequest(), admin)
	require.NoError(t, err)

	cancelled, err := f.service.CancelBooking(context.Background(), booking.ID, "owner request", admin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	assert.Equal(t, "owner request", cancelled.CancellationReason)
	assert.Equal(t, "ana", cancelled.CancelledBy)

	// Idempotent second cancel: nothing new broadcast.
	_, err = f.service.CancelBooking(context.Background(), booking.ID, "again", admin)
	require.NoError(t, err)
	assert.Equal(t, "owner request", cancelled.CancellationReason)

	assert.Equal(t, []string{
		"created:" + booking.ID,
		"state:" + booking.ID + ":SCHEDULED->CANCELLED",
		"cancelled:" + booking.ID + ":owner request",
	}, f.subscriber.events)
}

func TestCancelAttendedBookingFails(t *testing.T) {
	f := newBookingServiceFixture(t)

	booking, err := f.service.CreateBooking(context.Background(), validRequest(), admin)
	require.NoError(t, err)
	_, err = f.service.ConfirmBooking(context.Background(), booking.ID, admin)
	require.NoError(t, err)
	_, err = f.service.AttendBooking(context.Background(), booking.ID, admin)
	require.NoError(t, err)

	_, err = f.service.CancelBooking(context.Background(), booking.ID, "too late", admin)

	var transitionErr *domainerr.InvalidStateTransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestBookingWritesEvictDashboardCache(t *testing.T) {
	f := newBookingServiceFixture(t)

	_, err := f.cache.GetOrCompute("dashboard:daily:2026-09-10", func() (interface{}, error) {
		return "stale", nil
	})
	require.NoError(t, err)
	_, err = f.cache.GetOrCompute("other:key", func() (interface{}, error) {
		return "kept", nil
	})
	require.NoError(t, err)

	_, err = f.service.CreateBooking(context.Background(), validRequest(), admin)
	require.NoError(t, err)

	assert.Equal(t, 1, f.cache.Stats().TotalEntries)
}

func TestCancelUnconfirmedSweep(t *testing.T) {
	f := newBookingServiceFixture(t)

	soon := validRequest()
	soon.Date = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	soon.StartMinute = 9 * 60
	unconfirmed, err := f.service.CreateBooking(context.Background(), soon, admin)
	require.NoError(t, err)

	confirmedSoon := validRequest()
	confirmedSoon.Date = soon.Date
	confirmedSoon.StartMinute = 9*60 + 30
	confirmedSoon.Confirmed = true
	confirmed, err := f.service.CreateBooking(context.Background(), confirmedSoon, admin)
	require.NoError(t, err)

	farOut, err := f.service.CreateBooking(context.Background(), validRequest(), admin)
	require.NoError(t, err)

	cancelled, err := f.service.CancelUnconfirmed(context.Background(), 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	got, err := f.service.GetBooking(context.Background(), unconfirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
	assert.Equal(t, "not confirmed in time", got.CancellationReason)
	assert.Equal(t, entity.SystemActor, got.CancelledBy)

	got, err = f.service.GetBooking(context.Background(), confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, got.Status)

	got, err = f.service.GetBooking(context.Background(), farOut.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusScheduled, got.Status)
}

func TestOperationsOnMissingBooking(t *testing.T) {
	f := newBookingServiceFixture(t)

	_, err := f.service.ConfirmBooking(context.Background(), "missing", admin)

	var notFound *domainerr.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)
}
