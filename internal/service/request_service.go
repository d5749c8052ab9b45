package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	"github.com/noah-isme/tuteur-adom-api/internal/workflow"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

type requestRepository interface {
	Create(ctx context.Context, req *models.Request) error
	FindByID(ctx context.Context, id string) (*models.Request, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Request, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.Request, error)
	UpdateStatus(ctx context.Context, id string, status models.RequestStatus) error
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// RequestServiceParams groups the collaborators of RequestService.
type RequestServiceParams struct {
	Repo      requestRepository
	Users     userFinder
	Teachers  userFinder
	Courses   courseFinder
	Tx        TxRunner
	Metrics   *MetricsService
	Audit     AuditRecorder
	Validator *validator.Validate
	Logger    *zap.Logger
	Options   WorkflowOptions
}

// RequestService manages booking requests from parents to teachers.
type RequestService struct {
	repo      requestRepository
	users     userFinder
	teachers  userFinder
	courses   courseFinder
	tx        TxRunner
	metrics   *MetricsService
	audit     AuditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	lifecycle workflow.Machine[models.RequestStatus]
}

// NewRequestService constructs a RequestService.
func NewRequestService(params RequestServiceParams) *RequestService {
	svc := &RequestService{
		repo:      params.Repo,
		users:     params.Users,
		teachers:  params.Teachers,
		courses:   params.Courses,
		tx:        params.Tx,
		metrics:   params.Metrics,
		audit:     params.Audit,
		validator: params.Validator,
		logger:    params.Logger,
		lifecycle: workflow.RequestLifecycle.Strict(params.Options.StrictTransitions),
	}
	if svc.tx == nil {
		svc.tx = noopTx{}
	}
	if svc.audit == nil {
		svc.audit = noopAudit{}
	}
	if svc.validator == nil {
		svc.validator = validator.New()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Create files a PENDING request after resolving the parent, teacher and course.
func (s *RequestService) Create(ctx context.Context, input models.CreateRequestInput) (*models.Request, error) {
	input.ParentID = normalizeID(input.ParentID)
	input.TeacherID = normalizeID(input.TeacherID)
	input.CourseID = normalizeID(input.CourseID)
	input.Message = strings.TrimSpace(input.Message)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Invalid(err, "invalid request payload")
	}
	if input.Message == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message must not be empty")
	}

	req := &models.Request{
		ParentID:  input.ParentID,
		TeacherID: input.TeacherID,
		CourseID:  input.CourseID,
		Status:    models.RequestPending,
		Message:   input.Message,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		parent, err := s.users.FindByID(ctx, input.ParentID)
		if err != nil {
			return lookupError(err, "parent")
		}
		if !parent.IsParent() {
			return appErrors.Clone(appErrors.ErrNotFound, "parent not found")
		}
		if _, err := s.teachers.FindByID(ctx, input.TeacherID); err != nil {
			return lookupError(err, "teacher")
		}
		if _, err := s.courses.FindByID(ctx, input.CourseID); err != nil {
			return lookupError(err, "course")
		}
		if err := s.repo.Create(ctx, req); err != nil {
			return appErrors.Internal(err, "failed to create request")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to create request")
	}

	s.logger.Info("request created",
		zap.String("request_id", req.ID),
		zap.String("parent_id", req.ParentID),
		zap.String("teacher_id", req.TeacherID),
	)
	s.metrics.RecordTransition(models.AuditEntityRequest, string(req.Status))
	s.audit.Record(ctx, creation(ctx, models.AuditEntityRequest, req.ID, string(req.Status)))
	return req, nil
}

// Get returns a request by id.
func (s *RequestService) Get(ctx context.Context, id string) (*models.Request, error) {
	req, err := s.repo.FindByID(ctx, normalizeID(id))
	if err != nil {
		return nil, lookupError(err, "request")
	}
	return req, nil
}

// SetStatus relabels a request.
func (s *RequestService) SetStatus(ctx context.Context, id, label string) (*models.Request, error) {
	id = normalizeID(id)
	var (
		req  *models.Request
		from models.RequestStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookupError(err, "request")
		}
		from = current.Status
		next, err := s.lifecycle.Relabel(from, label)
		if err != nil {
			return statusError(err)
		}
		if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
			return appErrors.Internal(err, "failed to update request status")
		}
		current.Status = next
		req = current
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update request status")
	}

	s.logger.Info("request status changed",
		zap.String("request_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(req.Status)),
	)
	s.metrics.RecordTransition(models.AuditEntityRequest, string(req.Status))
	s.audit.Record(ctx, statusChange(ctx, models.AuditEntityRequest, id, string(from), string(req.Status)))
	return req, nil
}

// List returns requests matching filter, newest first.
func (s *RequestService) List(ctx context.Context, filter models.RequestFilter) ([]models.Request, error) {
	requests, err := s.repo.List(ctx, filter)
	if malformedID(err) {
		return []models.Request{}, nil
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list requests")
	}
	if requests == nil {
		requests = []models.Request{}
	}
	return requests, nil
}

// Pending lists requests still awaiting a decision.
func (s *RequestService) Pending(ctx context.Context) ([]models.Request, error) {
	status := models.RequestPending
	return s.List(ctx, models.RequestFilter{Status: &status})
}

// Stats counts requests per status.
func (s *RequestService) Stats(ctx context.Context) (models.StatusBreakdown, error) {
	rows, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return models.StatusBreakdown{}, appErrors.Internal(err, "failed to count requests")
	}
	return models.NewStatusBreakdown(models.RequestStatuses, rows), nil
}
