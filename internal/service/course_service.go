package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CourseService manages the courses published by teachers.
type CourseService struct {
	repo      courseRepository
	teachers  userFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, teachers userFinder, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// Create publishes a course for teacherID. Unknown locations are dropped.
func (s *CourseService) Create(ctx context.Context, teacherID string, req models.CreateCourseRequest) (*models.Course, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid course payload")
	}

	teacherID = normalizeID(teacherID)
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		return nil, lookupError(err, "teacher")
	}

	course := &models.Course{
		TeacherID:   teacherID,
		Subject:     req.Subject,
		Description: req.Description,
		HourlyRate:  req.HourlyRate,
		Locations:   models.LocationsFromLabels(req.Locations),
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Internal(err, "failed to create course")
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("teacher_id", teacherID))
	return course, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, normalizeID(id))
	if err != nil {
		return nil, lookupError(err, "course")
	}
	return course, nil
}

// ListByTeacher returns the courses of a teacher.
func (s *CourseService) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	courses, err := s.repo.ListByTeacher(ctx, normalizeID(teacherID))
	if malformedID(err) {
		return []models.Course{}, nil
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// Update applies a partial update. The owning teacher and creation time never change.
func (s *CourseService) Update(ctx context.Context, id string, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid course payload")
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Subject != nil {
		course.Subject = strings.TrimSpace(*req.Subject)
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.HourlyRate != nil {
		course.HourlyRate = *req.HourlyRate
	}
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Internal(err, "failed to update course")
	}
	return course, nil
}

// Delete removes a course. Courses still referenced by requests are kept and
// reported as a conflict.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, normalizeID(id)); err != nil {
		switch {
		case missingRow(err):
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		case pgCode(err) == pgForeignKeyViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "course has requests and cannot be deleted")
		}
		return appErrors.Internal(err, "failed to delete course")
	}
	return nil
}
