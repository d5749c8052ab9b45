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

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Review, error)
}

type ratingStore interface {
	FindByIDForUpdate(ctx context.Context, id string) (*models.User, error)
	UpdateRating(ctx context.Context, id string, rating float64) error
}

// ReviewServiceParams groups the collaborators of ReviewService.
type ReviewServiceParams struct {
	Repo      reviewRepository
	Teachers  ratingStore
	Users     userFinder
	Tx        TxRunner
	Cache     *CacheService
	Audit     AuditRecorder
	Validator *validator.Validate
	Logger    *zap.Logger
}

// ReviewService appends reviews and keeps the teacher rating in step.
type ReviewService struct {
	repo      reviewRepository
	teachers  ratingStore
	users     userFinder
	tx        TxRunner
	cache     *CacheService
	audit     AuditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs a ReviewService.
func NewReviewService(params ReviewServiceParams) *ReviewService {
	svc := &ReviewService{
		repo:      params.Repo,
		teachers:  params.Teachers,
		users:     params.Users,
		tx:        params.Tx,
		cache:     params.Cache,
		audit:     params.Audit,
		validator: params.Validator,
		logger:    params.Logger,
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

// AddReview stores a review and recomputes the teacher rating in the same transaction.
// The teacher row is locked so concurrent reviews see each other.
func (s *ReviewService) AddReview(ctx context.Context, input models.CreateReviewInput) (*models.Review, float64, error) {
	input.ParentID = normalizeID(input.ParentID)
	input.TeacherID = normalizeID(input.TeacherID)
	input.Comment = strings.TrimSpace(input.Comment)
	if err := s.validator.Struct(input); err != nil {
		return nil, 0, appErrors.Invalid(err, "invalid review payload")
	}
	if input.Comment == "" {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "comment must not be empty")
	}

	review := &models.Review{
		ParentID:  input.ParentID,
		TeacherID: input.TeacherID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	var (
		previous float64
		rating   float64
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		teacher, err := s.teachers.FindByIDForUpdate(ctx, input.TeacherID)
		if err != nil {
			return lookupError(err, "teacher")
		}
		previous = teacher.Teacher.Rating
		if s.users != nil {
			parent, err := s.users.FindByID(ctx, input.ParentID)
			if err != nil {
				return lookupError(err, "parent")
			}
			if !parent.IsParent() {
				return appErrors.Clone(appErrors.ErrNotFound, "parent not found")
			}
		}
		if err := s.repo.Create(ctx, review); err != nil {
			return appErrors.Internal(err, "failed to create review")
		}
		reviews, err := s.repo.ListByTeacher(ctx, input.TeacherID)
		if err != nil {
			return appErrors.Internal(err, "failed to load reviews")
		}
		rating = workflow.StoredRating(workflow.RecomputeRating(reviews))
		if err := s.teachers.UpdateRating(ctx, input.TeacherID, rating); err != nil {
			return appErrors.Internal(err, "failed to update rating")
		}
		return nil
	})
	if err != nil {
		return nil, 0, passThrough(err, "failed to add review")
	}

	s.logger.Info("teacher rating recomputed",
		zap.String("teacher_id", input.TeacherID),
		zap.String("review_id", review.ID),
		zap.Float64("rating", rating),
	)
	s.audit.Record(ctx, creation(ctx, models.AuditEntityReview, review.ID, ""))
	if previous != rating {
		entry := creation(ctx, models.AuditEntityTeacher, input.TeacherID, "")
		entry.Action = models.AuditActionRating
		s.audit.Record(ctx, entry)
	}
	s.cache.Invalidate(ctx, teacherSearchCachePrefix+"*")
	return review, rating, nil
}

// ListByTeacher returns the reviews of a teacher, newest first.
func (s *ReviewService) ListByTeacher(ctx context.Context, teacherID string) ([]models.Review, error) {
	reviews, err := s.repo.ListByTeacher(ctx, normalizeID(teacherID))
	if malformedID(err) {
		return []models.Review{}, nil
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list reviews")
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}
