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

type appointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

type requestFinder interface {
	FindByID(ctx context.Context, id string) (*models.Request, error)
}

// AppointmentServiceParams groups the collaborators of AppointmentService.
type AppointmentServiceParams struct {
	Repo      appointmentRepository
	Requests  requestFinder
	Tx        TxRunner
	Metrics   *MetricsService
	Audit     AuditRecorder
	Validator *validator.Validate
	Logger    *zap.Logger
	Options   WorkflowOptions
}

// AppointmentService promotes requests into appointments and tracks their lifecycle.
type AppointmentService struct {
	repo       appointmentRepository
	requests   requestFinder
	tx         TxRunner
	metrics    *MetricsService
	audit      AuditRecorder
	validator  *validator.Validate
	logger     *zap.Logger
	lifecycle  workflow.Machine[models.AppointmentStatus]
	checkRange bool
}

// NewAppointmentService constructs an AppointmentService.
func NewAppointmentService(params AppointmentServiceParams) *AppointmentService {
	svc := &AppointmentService{
		repo:       params.Repo,
		requests:   params.Requests,
		tx:         params.Tx,
		metrics:    params.Metrics,
		audit:      params.Audit,
		validator:  params.Validator,
		logger:     params.Logger,
		lifecycle:  workflow.AppointmentLifecycle.Strict(params.Options.StrictTransitions),
		checkRange: params.Options.ValidateTimeRange,
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

// Promote schedules an appointment for a request. The request itself is not modified.
func (s *AppointmentService) Promote(ctx context.Context, input models.PromoteRequestInput) (*models.Appointment, error) {
	input.RequestID = normalizeID(input.RequestID)
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Invalid(err, "invalid appointment payload")
	}

	var appt *models.Appointment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		req, err := s.requests.FindByID(ctx, input.RequestID)
		if err != nil {
			return lookupError(err, "request")
		}
		location, ok := models.LocationFromLabel(strings.TrimSpace(input.Location))
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, "unknown location "+input.Location)
		}
		slot, err := workflow.ParseSlot(input.Date, input.StartTime, input.EndTime, s.checkRange)
		if err != nil {
			return appErrors.Invalid(err, "invalid appointment time")
		}

		appt = &models.Appointment{
			RequestID: req.ID,
			ParentID:  req.ParentID,
			TeacherID: req.TeacherID,
			Date:      slot.Date,
			StartTime: slot.StartClock(),
			EndTime:   slot.EndClock(),
			Location:  location,
			Status:    models.AppointmentScheduled,
		}
		if err := s.repo.Create(ctx, appt); err != nil {
			return appErrors.Internal(err, "failed to create appointment")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to create appointment")
	}

	s.logger.Info("appointment scheduled",
		zap.String("appointment_id", appt.ID),
		zap.String("request_id", appt.RequestID),
		zap.String("date", appt.Date.Format(workflow.DateLayout)),
	)
	s.metrics.RecordTransition(models.AuditEntityAppointment, string(appt.Status))
	s.audit.Record(ctx, creation(ctx, models.AuditEntityAppointment, appt.ID, string(appt.Status)))
	return appt, nil
}

// Get returns an appointment by id.
func (s *AppointmentService) Get(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.repo.FindByID(ctx, normalizeID(id))
	if err != nil {
		return nil, lookupError(err, "appointment")
	}
	return appt, nil
}

// SetStatus relabels an appointment. Repeating the current status succeeds.
func (s *AppointmentService) SetStatus(ctx context.Context, id, label string) (*models.Appointment, error) {
	id = normalizeID(id)
	var (
		appt *models.Appointment
		from models.AppointmentStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookupError(err, "appointment")
		}
		from = current.Status
		next, err := s.lifecycle.Relabel(from, label)
		if err != nil {
			return statusError(err)
		}
		if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
			return appErrors.Internal(err, "failed to update appointment status")
		}
		current.Status = next
		appt = current
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update appointment status")
	}

	s.logger.Info("appointment status changed",
		zap.String("appointment_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(appt.Status)),
	)
	s.metrics.RecordTransition(models.AuditEntityAppointment, string(appt.Status))
	s.audit.Record(ctx, statusChange(ctx, models.AuditEntityAppointment, id, string(from), string(appt.Status)))
	return appt, nil
}

// List returns appointments matching filter in calendar order.
func (s *AppointmentService) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	appts, err := s.repo.List(ctx, filter)
	if malformedID(err) {
		return []models.Appointment{}, nil
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list appointments")
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}

// Stats counts appointments per status.
func (s *AppointmentService) Stats(ctx context.Context) (models.StatusBreakdown, error) {
	rows, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return models.StatusBreakdown{}, appErrors.Internal(err, "failed to count appointments")
	}
	return models.NewStatusBreakdown(models.AppointmentStatuses, rows), nil
}
