package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog is an immutable record of who changed what. Before and After
// hold entity snapshots around the change.
type AuditLog struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ActorID   uuid.UUID       `json:"actor_id" db:"actor_id"`
	Entity    string          `json:"entity" db:"entity"`
	Action    string          `json:"action" db:"action"`
	Before    json.RawMessage `json:"before,omitempty" db:"before_snapshot"`
	After     json.RawMessage `json:"after,omitempty" db:"after_snapshot"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

const (
	// Action types
	AuditActionCreate   = "create"
	AuditActionUpdate   = "update"
	AuditActionArchive  = "archive"
	AuditActionResolve  = "resolve"
	AuditActionClose    = "close"
	AuditActionRegister = "register"

	// Entity types
	AuditEntityUser         = "user"
	AuditEntityMother       = "mother"
	AuditEntityMeal         = "meal"
	AuditEntityPlan         = "nutrition_plan"
	AuditEntityThread       = "thread"
	AuditEntityMessage      = "message"
	AuditEntityAlert        = "alert"
	AuditEntityNotification = "notification"
)
