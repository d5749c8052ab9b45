package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	"github.com/noah-isme/tuteur-adom-api/internal/workflow"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

// TxRunner scopes a unit of work to one database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditRecorder accepts audit entries for asynchronous persistence.
type AuditRecorder interface {
	Record(ctx context.Context, entry models.AuditLog)
}

// WorkflowOptions toggles optional workflow guards.
type WorkflowOptions struct {
	StrictTransitions bool
	ValidateTimeRange bool
}

type noopTx struct{}

func (noopTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, models.AuditLog) {}

type actorKey struct{}

// WithActor attaches the id of the authenticated caller for audit attribution.
func WithActor(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the caller id set by WithActor.
func ActorFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorKey{}).(string)
	return id, ok && id != ""
}

func statusChange(ctx context.Context, entity, id, from, to string) models.AuditLog {
	entry := models.AuditLog{
		Entity:     entity,
		EntityID:   id,
		Action:     models.AuditActionStatusChange,
		FromStatus: &from,
		ToStatus:   &to,
	}
	if actor, ok := ActorFromContext(ctx); ok {
		entry.ActorID = &actor
	}
	return entry
}

func creation(ctx context.Context, entity, id, status string) models.AuditLog {
	entry := models.AuditLog{Entity: entity, EntityID: id, Action: models.AuditActionCreate}
	if status != "" {
		entry.ToStatus = &status
	}
	if actor, ok := ActorFromContext(ctx); ok {
		entry.ActorID = &actor
	}
	return entry
}

// Postgres SQLSTATE codes the services translate.
const (
	pgInvalidTextRepresentation pq.ErrorCode = "22P02"
	pgForeignKeyViolation       pq.ErrorCode = "23503"
)

func pgCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// malformedID reports an id the database could not cast to a UUID. Such an id
// can never resolve to a row.
func malformedID(err error) bool {
	return pgCode(err) == pgInvalidTextRepresentation
}

// missingRow reports a read that matched nothing.
func missingRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || malformedID(err)
}

// lookupError maps a repository read failure onto NotFound or Internal.
func lookupError(err error, entity string) error {
	if missingRow(err) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Internal(err, fmt.Sprintf("failed to load %s", entity))
}

// statusError maps workflow errors onto InvalidStatus or Conflict.
func statusError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrUnknownStatus):
		return appErrors.Wrap(err, appErrors.ErrInvalidStatus.Code, appErrors.ErrInvalidStatus.Status, "invalid status")
	case errors.Is(err, workflow.ErrTransitionNotAllowed):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "status transition not allowed")
	default:
		return appErrors.Internal(err, "failed to change status")
	}
}

// passThrough keeps typed errors raised inside a transaction and wraps the rest.
func passThrough(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Internal(err, message)
}

func normalizeID(id string) string {
	return strings.TrimSpace(id)
}
