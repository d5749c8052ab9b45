package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	"github.com/noah-isme/tuteur-adom-api/internal/workflow"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

const teacherSearchCachePrefix = "teachers:search:"

type teacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.User, error)
	Search(ctx context.Context, filter models.TeacherSearch) ([]models.User, error)
	List(ctx context.Context, filter models.TeacherListFilter) ([]models.User, int, error)
	UpdateStatus(ctx context.Context, id string, status models.TeacherStatus) error
	UpdateProfile(ctx context.Context, teacher *models.User) error
	CountByStatus(ctx context.Context) ([]models.StatusCount, error)
}

type reviewLister interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Review, error)
}

// TeacherServiceParams groups the collaborators of TeacherService.
type TeacherServiceParams struct {
	Repo      teacherRepository
	Reviews   reviewLister
	Tx        TxRunner
	Cache     *CacheService
	Metrics   *MetricsService
	Audit     AuditRecorder
	Validator *validator.Validate
	Logger    *zap.Logger
	Options   WorkflowOptions
	SearchTTL time.Duration
}

// TeacherService runs teacher vetting, marketplace search and profile maintenance.
type TeacherService struct {
	repo      teacherRepository
	reviews   reviewLister
	tx        TxRunner
	cache     *CacheService
	metrics   *MetricsService
	audit     AuditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	vetting   workflow.Machine[models.TeacherStatus]
	searchTTL time.Duration
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(params TeacherServiceParams) *TeacherService {
	svc := &TeacherService{
		repo:      params.Repo,
		reviews:   params.Reviews,
		tx:        params.Tx,
		cache:     params.Cache,
		metrics:   params.Metrics,
		audit:     params.Audit,
		validator: params.Validator,
		logger:    params.Logger,
		vetting:   workflow.TeacherVetting.Strict(params.Options.StrictTransitions),
		searchTTL: params.SearchTTL,
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

// SetStatus relabels the vetting status of a teacher.
func (s *TeacherService) SetStatus(ctx context.Context, id, label string) (*models.User, error) {
	id = normalizeID(id)
	var (
		teacher *models.User
		from    models.TeacherStatus
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookupError(err, "teacher")
		}
		from = current.Teacher.Status
		next, err := s.vetting.Relabel(from, label)
		if err != nil {
			return statusError(err)
		}
		if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
			return appErrors.Internal(err, "failed to update teacher status")
		}
		current.Teacher.Status = next
		teacher = current
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update teacher status")
	}

	to := teacher.Teacher.Status
	s.logger.Info("teacher status changed",
		zap.String("teacher_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	s.metrics.RecordTransition(models.AuditEntityTeacher, string(to))
	s.audit.Record(ctx, statusChange(ctx, models.AuditEntityTeacher, id, string(from), string(to)))
	s.invalidateSearch(ctx)
	return teacher, nil
}

// Search returns ACTIVE teachers matching every supplied filter.
func (s *TeacherService) Search(ctx context.Context, filter models.TeacherSearch) ([]models.User, error) {
	filter.Subject = strings.TrimSpace(filter.Subject)
	if filter.MinRate != nil && filter.MaxRate != nil && *filter.MinRate > *filter.MaxRate {
		return []models.User{}, nil
	}

	key := teacherSearchCachePrefix + filter.CacheKey()
	var cached []models.User
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	start := time.Now()
	teachers, err := s.repo.Search(ctx, filter)
	s.metrics.ObserveDBQuery("teacher_search", time.Since(start))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to search teachers")
	}
	if teachers == nil {
		teachers = []models.User{}
	}
	s.cache.Set(ctx, key, teachers, s.searchTTL)
	return teachers, nil
}

// Get returns a teacher with their reviews.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.User, error) {
	teacher, err := s.repo.FindByID(ctx, normalizeID(id))
	if err != nil {
		return nil, lookupError(err, "teacher")
	}
	if s.reviews != nil {
		reviews, err := s.reviews.ListByTeacher(ctx, teacher.ID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load reviews")
		}
		teacher.Teacher.Reviews = reviews
	}
	return teacher, nil
}

// ListForAdmin lists teachers, filtered by status when the label is recognised.
// An empty or unknown label lists every teacher.
func (s *TeacherService) ListForAdmin(ctx context.Context, statusLabel string, page, pageSize int) ([]models.User, *models.Pagination, error) {
	filter := models.TeacherListFilter{Page: page, PageSize: pageSize}
	if statusLabel != "" {
		if status, err := s.vetting.Parse(statusLabel); err == nil {
			filter.Status = &status
		}
	}
	return s.list(ctx, filter)
}

// Pending lists teachers awaiting vetting.
func (s *TeacherService) Pending(ctx context.Context) ([]models.User, error) {
	status := models.TeacherPending
	teachers, _, err := s.list(ctx, models.TeacherListFilter{Status: &status})
	return teachers, err
}

func (s *TeacherService) list(ctx context.Context, filter models.TeacherListFilter) ([]models.User, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list teachers")
	}
	if teachers == nil {
		teachers = []models.User{}
	}
	if filter.PageSize <= 0 {
		return teachers, nil, nil
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	return teachers, &models.Pagination{Page: page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Stats counts teachers per vetting status.
func (s *TeacherService) Stats(ctx context.Context) (models.StatusBreakdown, error) {
	rows, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return models.StatusBreakdown{}, appErrors.Internal(err, "failed to count teachers")
	}
	return models.NewStatusBreakdown(models.TeacherStatuses, rows), nil
}

// UpdateProfile applies a partial profile update.
func (s *TeacherService) UpdateProfile(ctx context.Context, id string, req models.UpdateTeacherRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid teacher payload")
	}

	id = normalizeID(id)
	var teacher *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return lookupError(err, "teacher")
		}
		applyTeacherUpdate(current, req)
		if err := s.repo.UpdateProfile(ctx, current); err != nil {
			return appErrors.Internal(err, "failed to update teacher")
		}
		teacher = current
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update teacher")
	}

	s.invalidateSearch(ctx)
	return teacher, nil
}

func applyTeacherUpdate(user *models.User, req models.UpdateTeacherRequest) {
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}

	profile := user.Teacher
	if req.Subject != nil {
		profile.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.HourlyRate != nil {
		profile.HourlyRate = *req.HourlyRate
	}
	if len(req.TeachingLocations) > 0 {
		profile.TeachingLocations = models.LocationsFromSymbols(req.TeachingLocations)
	}
	if req.Skills != nil {
		profile.Skills = *req.Skills
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.CVURL != nil {
		profile.CVURL = req.CVURL
	}
}

func (s *TeacherService) invalidateSearch(ctx context.Context) {
	s.cache.Invalidate(ctx, teacherSearchCachePrefix+"*")
}
