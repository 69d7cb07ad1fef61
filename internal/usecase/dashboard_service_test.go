package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/pkg/cache"
	"clinic-booking-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDashboard(bookingRepo *memBookingRepo) *DashboardService {
	s := NewDashboardService(bookingRepo, cache.NewCache(5*time.Minute), logger.NewNop(), nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func seedDay(t *testing.T, bookingRepo *memBookingRepo, date time.Time, statuses ...string) {
	t.Helper()
	for i, status := range statuses {
		b := testBooking(uuid.NewString())
		b.Date = date
		b.StartMinute = 9*60 + i*30
		b.Status = status
		require.NoError(t, bookingRepo.Create(context.Background(), b))
	}
}

func TestDailySummaryCountsByStatus(t *testing.T) {
	bookingRepo := newMemBookingRepo()
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedDay(t, bookingRepo, day,
		entity.StatusScheduled, entity.StatusConfirmed, entity.StatusConfirmed, entity.StatusCancelled)

	s := testDashboard(bookingRepo)
	summary, err := s.DailySummary(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.Total)
	assert.Equal(t, int64(1), summary.StatusCounts[entity.StatusScheduled])
	assert.Equal(t, int64(2), summary.StatusCounts[entity.StatusConfirmed])
	assert.Equal(t, int64(1), summary.StatusCounts[entity.StatusCancelled])
}

func TestDailySummaryServedFromCache(t *testing.T) {
	bookingRepo := newMemBookingRepo()
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedDay(t, bookingRepo, day, entity.StatusScheduled)

	s := testDashboard(bookingRepo)

	first, err := s.DailySummary(context.Background(), day)
	require.NoError(t, err)
	second, err := s.DailySummary(context.Background(), day)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, bookingRepo.countCalls)
}

func TestProviderScheduleCachedPerProviderAndDay(t *testing.T) {
	bookingRepo := newMemBookingRepo()
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedDay(t, bookingRepo, day, entity.StatusScheduled, entity.StatusConfirmed)

	s := testDashboard(bookingRepo)

	schedule, err := s.ProviderSchedule(context.Background(), "vet-1", day)
	require.NoError(t, err)
	assert.Len(t, schedule.Bookings, 2)

	_, err = s.ProviderSchedule(context.Background(), "vet-1", day)
	require.NoError(t, err)
	assert.Equal(t, 1, bookingRepo.findCalls)

	// A different provider is a different key.
	other, err := s.ProviderSchedule(context.Background(), "vet-2", day)
	require.NoError(t, err)
	assert.Empty(t, other.Bookings)
	assert.Equal(t, 2, bookingRepo.findCalls)
}

func TestWeekLoadCountsPendingPerDay(t *testing.T) {
	bookingRepo := newMemBookingRepo()
	today := fixedNow.Truncate(24 * time.Hour)
	seedDay(t, bookingRepo, today, entity.StatusScheduled, entity.StatusCancelled)
	seedDay(t, bookingRepo, today.AddDate(0, 0, 2), entity.StatusConfirmed, entity.StatusConfirmed)

	s := testDashboard(bookingRepo)

	load, err := s.WeekLoad(context.Background())
	require.NoError(t, err)
	require.Len(t, load, 7)

	assert.Equal(t, today, load[0].Date)
	assert.Equal(t, int64(1), load[0].Pending)
	assert.Equal(t, int64(2), load[2].Pending)
	assert.Equal(t, int64(0), load[6].Pending)
}

func TestDashboardRecomputesAfterEviction(t *testing.T) {
	bookingRepo := newMemBookingRepo()
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	seedDay(t, bookingRepo, day, entity.StatusScheduled)

	s := testDashboard(bookingRepo)

	summary, err := s.DailySummary(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Total)

	seedDay(t, bookingRepo, day, entity.StatusConfirmed)
	s.cache.EvictPattern("dashboard:*")

	summary, err = s.DailySummary(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Total)
	assert.Equal(t, 2, bookingRepo.countCalls)
}
