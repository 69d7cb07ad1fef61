package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking-service/internal/domain/entity"
	"clinic-booking-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuditConsumer(auditRepo *memAuditRepo) *AuditConsumer {
	c := NewAuditConsumer(auditRepo, logger.NewNop())
	c.now = func() time.Time { return fixedNow }
	return c
}

func TestAuditRecordsLifecycleEntries(t *testing.T) {
	auditRepo := &memAuditRepo{}
	c := testAuditConsumer(auditRepo)
	booking := testBooking("b-1")
	actor := entity.Principal{Name: "ana", Role: entity.RoleReceptionist}

	require.NoError(t, c.OnBookingCreated(context.Background(), booking, actor))
	require.NoError(t, c.OnBookingStateChanged(context.Background(), booking,
		entity.StatusScheduled, entity.StatusConfirmed, actor))
	require.NoError(t, c.OnBookingCancelled(context.Background(), booking, "owner request", actor))

	require.Len(t, auditRepo.entries, 3)

	created := auditRepo.entries[0]
	assert.Equal(t, entity.AuditActionCreate, created.Action)
	assert.Equal(t, "Booking", created.EntityType)
	assert.Equal(t, "b-1", created.EntityID)
	assert.Equal(t, "ana", created.Actor)
	assert.Equal(t, fixedNow, created.Timestamp)
	assert.Contains(t, created.Detail, "Rocky")

	assert.Equal(t, entity.AuditActionStateChange, auditRepo.entries[1].Action)
	assert.Contains(t, auditRepo.entries[1].Detail, "SCHEDULED -> CONFIRMED")

	assert.Equal(t, entity.AuditActionCancel, auditRepo.entries[2].Action)
	assert.Contains(t, auditRepo.entries[2].Detail, "owner request")
}

func TestAuditRecordsSystemForAnonymousActors(t *testing.T) {
	tests := []struct {
		name  string
		actor entity.Principal
	}{
		{"empty principal", entity.Principal{}},
		{"anonymous marker", entity.Principal{Name: entity.AnonymousPrincipal}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditRepo := &memAuditRepo{}
			c := testAuditConsumer(auditRepo)

			require.NoError(t, c.OnBookingCreated(context.Background(), testBooking("b-1"), tt.actor))
			require.Len(t, auditRepo.entries, 1)
			assert.Equal(t, entity.SystemActor, auditRepo.entries[0].Actor)
		})
	}
}
