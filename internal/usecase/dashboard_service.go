package usecase

import (
	"context"
	"fmt"
	"time"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/cache"
	"clinic-booking-service/pkg/logger"
	"clinic-booking-service/pkg/metrics"
)

// DailySummary aggregates one day's bookings by status.
type DailySummary struct {
	Date         time.Time
	StatusCounts map[string]int64
	Total        int64
}

// ProviderDaySchedule is one provider's bookings for one day, ordered by start
// time.
type ProviderDaySchedule struct {
	ProviderID string
	Date       time.Time
	Bookings   []*entity.Booking
}

// DayLoad is the pending booking count for one day of the week-ahead view.
type DayLoad struct {
	Date    time.Time
	Pending int64
}

// DashboardService serves the aggregate reads behind the reception dashboard.
// Every read goes through the TTL cache under a dashboard: key so that booking
// writes can evict the whole family at once.
type DashboardService struct {
	bookingRepo repository.BookingRepository
	cache       *cache.Cache
	logger      logger.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	bookingRepo repository.BookingRepository,
	cache *cache.Cache,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *DashboardService {
	return &DashboardService{
		bookingRepo: bookingRepo,
		cache:       cache,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
	}
}

// DailySummary returns the status breakdown for one day.
func (s *DashboardService) DailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	key := fmt.Sprintf("dashboard:daily:%s", date.Format("2006-01-02"))

	value, err := s.cached(key, func() (interface{}, error) {
		counts, err := s.bookingRepo.CountByStatusAndDate(ctx, date)
		if err != nil {
			return nil, err
		}
		summary := &DailySummary{Date: date, StatusCounts: counts}
		for _, n := range counts {
			summary.Total += n
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*DailySummary), nil
}

// ProviderSchedule returns one provider's bookings for one day.
func (s *DashboardService) ProviderSchedule(ctx context.Context, providerID string, date time.Time) (*ProviderDaySchedule, error) {
	key := fmt.Sprintf("dashboard:schedule:%s:%s", providerID, date.Format("2006-01-02"))

	value, err := s.cached(key, func() (interface{}, error) {
		bookings, err := s.bookingRepo.FindByProviderAndDate(ctx, providerID, date)
		if err != nil {
			return nil, err
		}
		return &ProviderDaySchedule{ProviderID: providerID, Date: date, Bookings: bookings}, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*ProviderDaySchedule), nil
}

// WeekLoad returns the pending booking count for each of the next seven days,
// starting today.
func (s *DashboardService) WeekLoad(ctx context.Context) ([]DayLoad, error) {
	start := s.now().UTC().Truncate(24 * time.Hour)
	key := fmt.Sprintf("dashboard:week:%s", start.Format("2006-01-02"))

	value, err := s.cached(key, func() (interface{}, error) {
		load := make([]DayLoad, 0, 7)
		for i := 0; i < 7; i++ {
			day := start.AddDate(0, 0, i)
			counts, err := s.bookingRepo.CountByStatusAndDate(ctx, day)
			if err != nil {
				return nil, err
			}
			load = append(load, DayLoad{
				Date:    day,
				Pending: counts[entity.StatusScheduled] + counts[entity.StatusConfirmed],
			})
		}
		return load, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]DayLoad), nil
}

// OwnerBookings returns every booking for one owner. Not cached: owner lookups
// are rare and must reflect writes immediately.
func (s *DashboardService) OwnerBookings(ctx context.Context, ownerName string) ([]*entity.Booking, error) {
	return s.bookingRepo.FindByOwner(ctx, ownerName)
}

// CacheStats exposes the cache population for the health endpoint.
func (s *DashboardService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// cached wraps compute so that hits and misses are counted: compute only runs
// on a miss, so the flag it sets distinguishes the two.
func (s *DashboardService) cached(key string, compute func() (interface{}, error)) (interface{}, error) {
	computed := false
	value, err := s.cache.GetOrCompute(key, func() (interface{}, error) {
		computed = true
		return compute()
	})
	if err != nil {
		return nil, err
	}

	if computed {
		s.metrics.IncCacheMiss()
		s.logger.Debug("Dashboard cache miss", "key", key)
	} else {
		s.metrics.IncCacheHit()
	}
	return value, nil
}
