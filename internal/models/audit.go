package models

import "time"

// Audit actions recorded for workflow changes.
const (
	AuditActionCreate       = "CREATE"
	AuditActionStatusChange = "STATUS_CHANGE"
	AuditActionRating       = "RATING_RECOMPUTE"
)

// Audited entities.
const (
	AuditEntityTeacher     = "teacher"
	AuditEntityRequest     = "request"
	AuditEntityAppointment = "appointment"
	AuditEntityReview      = "review"
)

// AuditLog records one workflow change.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	ActorID    *string   `db:"actor_id" json:"actor_id,omitempty"`
	Entity     string    `db:"entity" json:"entity"`
	EntityID   string    `db:"entity_id" json:"entity_id"`
	Action     string    `db:"action" json:"action"`
	FromStatus *string   `db:"from_status" json:"from_status,omitempty"`
	ToStatus   *string   `db:"to_status" json:"to_status,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
