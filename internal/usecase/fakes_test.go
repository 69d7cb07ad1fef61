package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinic-booking-service/internal/domain/domainerr"
	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/internal/domain/repository"
)

type memBookingRepo struct {
	mu         sync.Mutex
	bookings   map[string]*entity.Booking
	findCalls  int
	countCalls int
	createErr  error
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*entity.Booking)}
}

func (r *memBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.bookings[booking.ID] = booking
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, &domainerr.NotFoundError{Entity: "Booking", ID: id}
	}
	return booking, nil
}

func (r *memBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[booking.ID] = booking
	return nil
}

func (r *memBookingRepo) FindByProviderAndDate(_ context.Context, providerID string, date time.Time) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.Date.Equal(date) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindByOwner(_ context.Context, ownerName string) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.OwnerName == ownerName {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) FindUnconfirmedStartingBefore(_ context.Context, cutoff time.Time) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.Status == entity.StatusScheduled && !b.StartDateTime().After(cutoff) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) CountByStatusAndDate(_ context.Context, date time.Time) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.countCalls++
	counts := make(map[string]int64)
	for _, b := range r.bookings {
		if b.Date.Equal(date) {
			counts[b.Status]++
		}
	}
	return counts, nil
}

type memServiceRepo struct {
	services map[string]*entity.ClinicService
}

func newMemServiceRepo(services ...*entity.ClinicService) *memServiceRepo {
	repo := &memServiceRepo{services: make(map[string]*entity.ClinicService)}
	for _, s := range services {
		repo.services[s.ID] = s
	}
	return repo
}

func (r *memServiceRepo) GetByID(_ context.Context, id string) (*entity.ClinicService, error) {
	service, ok := r.services[id]
	if !ok {
		return nil, &domainerr.NotFoundError{Entity: "ClinicService", ID: id}
	}
	return service, nil
}

type memInventoryRepo struct {
	items       map[string]*entity.InventoryItem
	consumables map[string][]*entity.ServiceConsumable
	findCalls   int
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{
		items:       make(map[string]*entity.InventoryItem),
		consumables: make(map[string][]*entity.ServiceConsumable),
	}
}

func (r *memInventoryRepo) FindAll(_ context.Context) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *memInventoryRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, &domainerr.NotFoundError{Entity: "InventoryItem", ID: id}
	}
	return item, nil
}

func (r *memInventoryRepo) FindConsumablesByService(_ context.Context, serviceID string) ([]*entity.ServiceConsumable, error) {
	r.findCalls++
	return r.consumables[serviceID], nil
}

type memReminderRepo struct {
	mu        sync.Mutex
	reminders []*entity.Reminder
}

func (r *memReminderRepo) Create(_ context.Context, reminder *entity.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders = append(r.reminders, reminder)
	return nil
}

func (r *memReminderRepo) Update(_ context.Context, reminder *entity.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.reminders {
		if existing.ID == reminder.ID {
			r.reminders[i] = reminder
			return nil
		}
	}
	return &domainerr.NotFoundError{Entity: "Reminder", ID: reminder.ID}
}

func (r *memReminderRepo) FindPendingByBooking(_ context.Context, bookingID string) ([]*entity.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Reminder
	for _, reminder := range r.reminders {
		if reminder.BookingID == bookingID && !reminder.Sent {
			out = append(out, reminder)
		}
	}
	return out, nil
}

func (r *memReminderRepo) FindDue(_ context.Context, now time.Time, limit int) ([]*entity.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Reminder
	for _, reminder := range r.reminders {
		if reminder.IsDue(now) && reminder.CanRetry() {
			out = append(out, reminder)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*entity.AuditEntry
}

func (r *memAuditRepo) Record(_ context.Context, entry *entity.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memAuditRepo) FindByEntity(_ context.Context, entityType, entityID string) ([]*entity.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AuditEntry
	for _, entry := range r.entries {
		if entry.EntityType == entityType && entry.EntityID == entityID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeSender struct {
	mu           sync.Mutex
	sent         []*repository.OutboundMessage
	err          error
	failContacts map[string]error
}

func (s *fakeSender) Send(_ context.Context, msg *repository.OutboundMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if err, ok := s.failContacts[msg.Contact]; ok {
		return "", err
	}
	s.sent = append(s.sent, msg)
	return fmt.Sprintf("msg-%d", len(s.sent)), nil
}

func (s *fakeSender) messages() []*repository.OutboundMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*repository.OutboundMessage(nil), s.sent...)
}

// recordingSubscriber captures the events it receives and optionally fails them.
type recordingSubscriber struct {
	name   string
	events []string
	err    error
}

func (s *recordingSubscriber) Name() string { return s.name }

func (s *recordingSubscriber) OnBookingCreated(_ context.Context, booking *entity.Booking, _ entity.Principal) error {
	s.events = append(s.events, "created:"+booking.ID)
	return s.err
}

func (s *recordingSubscriber) OnBookingStateChanged(_ context.Context, booking *entity.Booking, fromState, toState string, _ entity.Principal) error {
	s.events = append(s.events, fmt.Sprintf("state:%s:%s->%s", booking.ID, fromState, toState))
	return s.err
}

func (s *recordingSubscriber) OnBookingCancelled(_ context.Context, booking *entity.Booking, reason string, _ entity.Principal) error {
	s.events = append(s.events, fmt.Sprintf("cancelled:%s:%s", booking.ID, reason))
	return s.err
}
