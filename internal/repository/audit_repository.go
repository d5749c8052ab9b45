package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
)

// AuditRepository writes the workflow audit trail. It never joins a caller's
// transaction because entries are written after the change commits.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit entry.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, actor_id, entity, entity_id, action, from_status, to_status, created_at) VALUES (:id, :actor_id, :entity, :entity_id, :action, :from_status, :to_status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListByEntity returns the trail of one entity, oldest first.
func (r *AuditRepository) ListByEntity(ctx context.Context, entity, entityID string) ([]models.AuditLog, error) {
	const query = `SELECT id, actor_id, entity, entity_id, action, from_status, to_status, created_at FROM audit_logs WHERE entity = $1 AND entity_id = $2 ORDER BY created_at ASC, id ASC`
	var entries []models.AuditLog
	if err := r.db.SelectContext(ctx, &entries, query, entity, entityID); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return entries, nil
}
