package entity

import "time"

// Audit actions recorded for booking lifecycle events.
const (
	AuditActionCreate      = "CREATE"
	AuditActionStateChange = "STATE_CHANGE"
	AuditActionCancel      = "CANCEL"
)

// SystemActor is recorded when no authenticated principal is acting.
const SystemActor = "SYSTEM"

// AnonymousPrincipal is the well-known marker used by the identity provider for
// unauthenticated requests.
const AnonymousPrincipal = "anonymous"

// AuditEntry is one immutable audit record.
type AuditEntry struct {
	ID         string    `bson:"_id,omitempty"`
	Action     string    `bson:"action"`
	EntityType string    `bson:"entityType"`
	EntityID   string    `bson:"entityId"`
	Actor      string    `bson:"actor"`
	Detail     string    `bson:"detail"`
	Timestamp  time.Time `bson:"timestamp"`
}

// Principal is the acting identity threaded explicitly through booking operations.
type Principal struct {
	Name string
	Role string
}

// Roles known to the permission validator.
const (
	RoleAdmin        = "ADMIN"
	RoleVet          = "VET"
	RoleReceptionist = "RECEPTIONIST"
	RoleAssistant    = "ASSISTANT"
)

// AuditName resolves the actor recorded on audit entries. Unauthenticated or
// anonymous principals are recorded as SYSTEM.
func (p Principal) AuditName() string {
	if p.Name == "" || p.Name == AnonymousPrincipal {
		return SystemActor
	}
	return p.Name
}
