package repository

import (
	"context"
	"errors"
	"time"

	"clinic-booking-service/internal/domain/domainerr"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

// GormBookingRepository implements the BookingRepository interface
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GORM booking repository
func NewGormBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &GormBookingRepository{
		db: db,
	}
}

// Bookings GORM model for database mapping
type Bookings struct {
	ID               string    `gorm:"column:id;primaryKey"`
	PatientID        string    `gorm:"column:patient_id;index"`
	PatientName      string    `gorm:"column:patient_name"`
	OwnerName        string    `gorm:"column:owner_name;index"`
	OwnerEmail       string    `gorm:"column:owner_email"`
	OwnerPhone       string    `gorm:"column:owner_phone"`
	ProviderID       string    `gorm:"column:provider_id;index"`
	ProviderName     string    `gorm:"column:provider_name"`
	ProviderEmail    string    `gorm:"column:provider_email"`
	ServiceID        string    `gorm:"column:service_id"`
	ServiceName      string    `gorm:"column:service_name"`
	Date             time.Time `gorm:"column:date;index"`
	StartMinute      int       `gorm:"column:start_minute"`
	DurationMinutes  int       `gorm:"column:duration_minutes"`
	Status           string    `gorm:"column:status;index"`
	Reason           string    `gorm:"column:reason"`
	FinalPrice       float64   `gorm:"column:final_price"`
	IsEmergency      bool      `gorm:"column:is_emergency"`
	IsHouseCall      bool      `gorm:"column:is_house_call"`
	HouseCallAddress string    `gorm:"column:house_call_address"`

	ConfirmedAt        *time.Time `gorm:"column:confirmed_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	AttentionStart     *time.Time `gorm:"column:attention_start"`
	AttentionEnd       *time.Time `gorm:"column:attention_end"`
	CancellationReason string     `gorm:"column:cancellation_reason"`
	CancelledBy        string     `gorm:"column:cancelled_by"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (Bookings) TableName() string {
	return "bookings"
}

func toBookingModel(b *entity.Booking) Bookings {
	return Bookings{
		ID:                 b.ID,
		PatientID:          b.PatientID,
		PatientName:        b.PatientName,
		OwnerName:          b.OwnerName,
		OwnerEmail:         b.OwnerEmail,
		OwnerPhone:         b.OwnerPhone,
		ProviderID:         b.ProviderID,
		ProviderName:       b.ProviderName,
		ProviderEmail:      b.ProviderEmail,
		ServiceID:          b.ServiceID,
		ServiceName:        b.ServiceName,
		Date:               b.Date,
		StartMinute:        b.StartMinute,
		DurationMinutes:    b.DurationMinutes,
		Status:             b.Status,
		Reason:             b.Reason,
		FinalPrice:         b.FinalPrice,
		IsEmergency:        b.IsEmergency,
		IsHouseCall:        b.IsHouseCall,
		HouseCallAddress:   b.HouseCallAddress,
		ConfirmedAt:        b.ConfirmedAt,
		CancelledAt:        b.CancelledAt,
		AttentionStart:     b.AttentionStart,
		AttentionEnd:       b.AttentionEnd,
		CancellationReason: b.CancellationReason,
		CancelledBy:        b.CancelledBy,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toBookingEntity(m *Bookings) *entity.Booking {
	return &entity.Booking{
		ID:                 m.ID,
		PatientID:          m.PatientID,
		PatientName:        m.PatientName,
		OwnerName:          m.OwnerName,
		OwnerEmail:         m.OwnerEmail,
		OwnerPhone:         m.OwnerPhone,
		ProviderID:         m.ProviderID,
		ProviderName:       m.ProviderName,
		ProviderEmail:      m.ProviderEmail,
		ServiceID:          m.ServiceID,
		ServiceName:        m.ServiceName,
		Date:               m.Date,
		StartMinute:        m.StartMinute,
		DurationMinutes:    m.DurationMinutes,
		Status:             m.Status,
		Reason:             m.Reason,
		FinalPrice:         m.FinalPrice,
		IsEmergency:        m.IsEmergency,
		IsHouseCall:        m.IsHouseCall,
		HouseCallAddress:   m.HouseCallAddress,
		ConfirmedAt:        m.ConfirmedAt,
		CancelledAt:        m.CancelledAt,
		AttentionStart:     m.AttentionStart,
		AttentionEnd:       m.AttentionEnd,
		CancellationReason: m.CancellationReason,
		CancelledBy:        m.CancelledBy,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// Create inserts a new booking. A unique violation on the provider slot index is
// surfaced as a SchedulingConflictError, closing the availability check-then-act
// window at the database.
func (r *GormBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	model := toBookingModel(booking)

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == pgUniqueViolation {
			return &domainerr.SchedulingConflictError{
				ProviderID:  booking.ProviderID,
				Date:        booking.Date,
				StartMinute: booking.StartMinute,
				EndMinute:   booking.EndMinute(),
			}
		}
		return result.Error
	}

	booking.CreatedAt = model.CreatedAt
	booking.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID finds a booking by its identifier
func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	var model Bookings
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &domainerr.NotFoundError{Entity: "booking", ID: id}
		}
		return nil, result.Error
	}

	return toBookingEntity(&model), nil
}

// Update persists the full booking state
func (r *GormBookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	model := toBookingModel(booking)
	result := r.db.WithContext(ctx).Save(&model)
	if result.Error != nil {
		return result.Error
	}
	booking.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByProviderAndDate finds the bookings used for the availability pre-check
func (r *GormBookingRepository) FindByProviderAndDate(ctx context.Context, providerID string, date time.Time) ([]*entity.Booking, error) {
	var models []Bookings
	result := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("date = ?", date).
		Order("start_minute asc").
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	bookings := make([]*entity.Booking, 0, len(models))
	for i := range models {
		bookings = append(bookings, toBookingEntity(&models[i]))
	}

	return bookings, nil
}

// FindByOwner finds all bookings for one owner
func (r *GormBookingRepository) FindByOwner(ctx context.Context, ownerName string) ([]*entity.Booking, error) {
	var models []Bookings
	result := r.db.WithContext(ctx).
		Where("owner_name = ?", ownerName).
		Order("date asc, start_minute asc").
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	bookings := make([]*entity.Booking, 0, len(models))
	for i := range models {
		bookings = append(bookings, toBookingEntity(&models[i]))
	}

	return bookings, nil
}

// FindUnconfirmedStartingBefore finds scheduled bookings whose start time falls
// before the cutoff and which were never confirmed. Feeds the auto-cancel sweep.
func (r *GormBookingRepository) FindUnconfirmedStartingBefore(ctx context.Context, cutoff time.Time) ([]*entity.Booking, error) {
	var models []Bookings
	result := r.db.WithContext(ctx).
		Where("status = ?", entity.StatusScheduled).
		Where("date + (start_minute * interval '1 minute') <= ?", cutoff).
		Order("date asc, start_minute asc").
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	bookings := make([]*entity.Booking, 0, len(models))
	for i := range models {
		bookings = append(bookings, toBookingEntity(&models[i]))
	}

	return bookings, nil
}

// CountByStatusAndDate aggregates booking counts per status for one day
func (r *GormBookingRepository) CountByStatusAndDate(ctx context.Context, date time.Time) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row

	result := r.db.WithContext(ctx).
		Model(&Bookings{}).
		Select("status, count(*) as count").
		Where("date = ?", date).
		Group("status").
		Scan(&rows)

	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}

	return counts, nil
}
