package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
	"github.com/noah-isme/tuteur-adom-api/pkg/jobs"
)

const auditJobType = "audit.write"

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByEntity(ctx context.Context, entity, entityID string) ([]models.AuditLog, error)
}

// AuditService writes workflow audit entries off the request path.
type AuditService struct {
	repo    auditRepository
	queue   *jobs.Queue
	logger  *zap.Logger
	enabled bool
}

// NewAuditService constructs an AuditService. A disabled service drops every entry.
func NewAuditService(repo auditRepository, cfg jobs.QueueConfig, logger *zap.Logger, enabled bool) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AuditService{repo: repo, logger: logger, enabled: enabled}
	cfg.Logger = logger
	svc.queue = jobs.NewQueue("audit", svc.handle, cfg)
	return svc
}

// Start launches the audit workers.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil || !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *AuditService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Record offers entry to the queue without waiting. When the queue is full
// the entry is dropped and logged; the caller never sees the failure.
func (s *AuditService) Record(ctx context.Context, entry models.AuditLog) {
	if s == nil || !s.enabled {
		return
	}
	if err := s.queue.TryEnqueue(jobs.Job{Type: auditJobType, Payload: entry}); err != nil {
		s.logger.Warn("audit entry dropped",
			zap.String("entity", entry.Entity),
			zap.String("entity_id", entry.EntityID),
			zap.Int64("dropped_total", s.queue.Dropped()),
			zap.Error(err),
		)
	}
}

// Trail returns the recorded history of one entity.
func (s *AuditService) Trail(ctx context.Context, entity, entityID string) ([]models.AuditLog, error) {
	switch entity {
	case models.AuditEntityTeacher, models.AuditEntityRequest, models.AuditEntityAppointment, models.AuditEntityReview:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown audit entity "+entity)
	}
	entries, err := s.repo.ListByEntity(ctx, entity, entityID)
	if malformedID(err) {
		return []models.AuditLog{}, nil
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load audit trail")
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	return entries, nil
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.AuditLog)
	if !ok {
		s.logger.Error("unexpected audit payload", zap.String("job_id", job.ID))
		return nil
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}
