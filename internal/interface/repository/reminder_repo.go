package repository

import (
	"context"
	"time"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormReminderRepository implements the ReminderRepository interface
type GormReminderRepository struct {
	db *gorm.DB
}

// NewGormReminderRepository creates a new GORM reminder repository
func NewGormReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &GormReminderRepository{
		db: db,
	}
}

// Reminders GORM model for database mapping
type Reminders struct {
	ID               string     `gorm:"column:id;primaryKey"`
	BookingID        string     `gorm:"column:booking_id;index"`
	Tier             string     `gorm:"column:tier"`
	Channel          string     `gorm:"column:channel"`
	Recipient        string     `gorm:"column:recipient"`
	RecipientContact string     `gorm:"column:recipient_contact"`
	Message          string     `gorm:"column:message"`
	ScheduledSendAt  time.Time  `gorm:"column:scheduled_send_at;index"`
	Sent             bool       `gorm:"column:sent;index"`
	SentAt           *time.Time `gorm:"column:sent_at"`
	Attempts         int        `gorm:"column:attempts"`
	MaxAttempts      int        `gorm:"column:max_attempts"`
	LastError        string     `gorm:"column:last_error"`
	ExternalID       string     `gorm:"column:external_id"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName overrides the default table name
func (Reminders) TableName() string {
	return "booking_reminders"
}

func toReminderModel(r *entity.Reminder) Reminders {
	return Reminders{
		ID:               r.ID,
		BookingID:        r.BookingID,
		Tier:             r.Tier,
		Channel:          r.Channel,
		Recipient:        r.Recipient,
		RecipientContact: r.RecipientContact,
		Message:          r.Message,
		ScheduledSendAt:  r.ScheduledSendAt,
		Sent:             r.Sent,
		SentAt:           r.SentAt,
		Attempts:         r.Attempts,
		MaxAttempts:      r.MaxAttempts,
		LastError:        r.LastError,
		ExternalID:       r.ExternalID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toReminderEntity(m *Reminders) *entity.Reminder {
	return &entity.Reminder{
		ID:               m.ID,
		BookingID:        m.BookingID,
		Tier:             m.Tier,
		Channel:          m.Channel,
		Recipient:        m.Recipient,
		RecipientContact: m.RecipientContact,
		Message:          m.Message,
		ScheduledSendAt:  m.ScheduledSendAt,
		Sent:             m.Sent,
		SentAt:           m.SentAt,
		Attempts:         m.Attempts,
		MaxAttempts:      m.MaxAttempts,
		LastError:        m.LastError,
		ExternalID:       m.ExternalID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// Create inserts a new reminder row
func (r *GormReminderRepository) Create(ctx context.Context, reminder *entity.Reminder) error {
	model := toReminderModel(reminder)
	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}
	reminder.CreatedAt = model.CreatedAt
	reminder.UpdatedAt = model.UpdatedAt
	return nil
}

// Update persists the full reminder state
func (r *GormReminderRepository) Update(ctx context.Context, reminder *entity.Reminder) error {
	model := toReminderModel(reminder)
	result := r.db.WithContext(ctx).Save(&model)
	if result.Error != nil {
		return result.Error
	}
	reminder.UpdatedAt = model.UpdatedAt
	return nil
}

// FindPendingByBooking finds all not-yet-sent reminders for one booking
func (r *GormReminderRepository) FindPendingByBooking(ctx context.Context, bookingID string) ([]*entity.Reminder, error) {
	var models []Reminders
	result := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Where("sent = ?", false).
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	reminders := make([]*entity.Reminder, 0, len(models))
	for i := range models {
		reminders = append(reminders, toReminderEntity(&models[i]))
	}

	return reminders, nil
}

// FindDue finds unsent reminders whose scheduled send time has passed and which
// still have attempts left
func (r *GormReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.Reminder, error) {
	var models []Reminders
	result := r.db.WithContext(ctx).
		Where("sent = ?", false).
		Where("scheduled_send_at <= ?", now).
		Where("attempts < max_attempts").
		Order("scheduled_send_at asc").
		Limit(limit).
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	reminders := make([]*entity.Reminder, 0, len(models))
	for i := range models {
		reminders = append(reminders, toReminderEntity(&models[i]))
	}

	return reminders, nil
}
