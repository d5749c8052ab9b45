package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	"github.com/noah-isme/tuteur-adom-api/internal/service"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

type stubTeacherService struct {
	lastSearch models.TeacherSearch
	lastLabel  string
	lastPage   [2]int
	teacher    *models.User
	teachers   []models.User
	err        error
}

func (s *stubTeacherService) SetStatus(_ context.Context, id, label string) (*models.User, error) {
	s.lastLabel = label
	if s.err != nil {
		return nil, s.err
	}
	return s.teacher, nil
}

func (s *stubTeacherService) Search(_ context.Context, filter models.TeacherSearch) ([]models.User, error) {
	s.lastSearch = filter
	return s.teachers, s.err
}

func (s *stubTeacherService) Get(context.Context, string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.teacher, nil
}

func (s *stubTeacherService) ListForAdmin(_ context.Context, label string, page, pageSize int) ([]models.User, *models.Pagination, error) {
	s.lastLabel = label
	s.lastPage = [2]int{page, pageSize}
	if pageSize <= 0 {
		return s.teachers, nil, s.err
	}
	return s.teachers, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(s.teachers)}, s.err
}

func (s *stubTeacherService) Pending(context.Context) ([]models.User, error) {
	return s.teachers, s.err
}

func (s *stubTeacherService) Stats(context.Context) (models.StatusBreakdown, error) {
	return models.NewStatusBreakdown(models.TeacherStatuses, []models.StatusCount{{Status: "ACTIVE", Count: 2}}), s.err
}

func (s *stubTeacherService) UpdateProfile(_ context.Context, _ string, _ models.UpdateTeacherRequest) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.teacher, nil
}

type stubRequestService struct {
	lastInput  models.CreateRequestInput
	lastFilter models.RequestFilter
	lastLabel  string
	request    *models.Request
	err        error
}

func (s *stubRequestService) Create(_ context.Context, input models.CreateRequestInput) (*models.Request, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.request, nil
}

func (s *stubRequestService) Get(context.Context, string) (*models.Request, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.request, nil
}

func (s *stubRequestService) SetStatus(_ context.Context, _ string, label string) (*models.Request, error) {
	s.lastLabel = label
	if s.err != nil {
		return nil, s.err
	}
	return s.request, nil
}

func (s *stubRequestService) List(_ context.Context, filter models.RequestFilter) ([]models.Request, error) {
	s.lastFilter = filter
	return []models.Request{*s.request}, s.err
}

func (s *stubRequestService) Pending(context.Context) ([]models.Request, error) {
	return []models.Request{*s.request}, s.err
}

type stubAppointmentService struct {
	lastInput  models.PromoteRequestInput
	lastFilter models.AppointmentFilter
	lastLabel  string
	appt       *models.Appointment
	err        error
}

func (s *stubAppointmentService) Promote(_ context.Context, input models.PromoteRequestInput) (*models.Appointment, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.appt, nil
}

func (s *stubAppointmentService) Get(context.Context, string) (*models.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.appt, nil
}

func (s *stubAppointmentService) SetStatus(_ context.Context, _ string, label string) (*models.Appointment, error) {
	s.lastLabel = label
	if s.err != nil {
		return nil, s.err
	}
	return s.appt, nil
}

func (s *stubAppointmentService) List(_ context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	s.lastFilter = filter
	return []models.Appointment{*s.appt}, s.err
}

type stubReviewService struct {
	lastInput models.CreateReviewInput
	rating    float64
	err       error
}

func (s *stubReviewService) AddReview(_ context.Context, input models.CreateReviewInput) (*models.Review, float64, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, 0, s.err
	}
	return &models.Review{ID: "rev-1", ParentID: input.ParentID, TeacherID: input.TeacherID, Rating: input.Rating, Comment: input.Comment}, s.rating, nil
}

func (s *stubReviewService) ListByTeacher(context.Context, string) ([]models.Review, error) {
	return []models.Review{}, s.err
}

type stubCourseService struct {
	lastTeacher string
	course      *models.Course
	err         error
}

func (s *stubCourseService) Create(_ context.Context, teacherID string, req models.CreateCourseRequest) (*models.Course, error) {
	s.lastTeacher = teacherID
	if s.err != nil {
		return nil, s.err
	}
	return s.course, nil
}

func (s *stubCourseService) Get(context.Context, string) (*models.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.course, nil
}

func (s *stubCourseService) ListByTeacher(_ context.Context, teacherID string) ([]models.Course, error) {
	s.lastTeacher = teacherID
	return []models.Course{*s.course}, s.err
}

func (s *stubCourseService) Update(context.Context, string, models.UpdateCourseRequest) (*models.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.course, nil
}

func (s *stubCourseService) Delete(context.Context, string) error {
	return s.err
}

type stubStatsService struct {
	format string
	err    error
}

func (s *stubStatsService) Platform(context.Context) (*models.PlatformStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.PlatformStats{
		Teachers:     models.NewStatusBreakdown(models.TeacherStatuses, nil),
		Requests:     models.NewStatusBreakdown(models.RequestStatuses, nil),
		Appointments: models.NewStatusBreakdown(models.AppointmentStatuses, nil),
		Parents:      4,
	}, nil
}

func (s *stubStatsService) Export(_ context.Context, format string) (*service.StatsExport, error) {
	s.format = format
	if s.err != nil {
		return nil, s.err
	}
	return &service.StatsExport{Filename: "platform-stats.csv", ContentType: "text/csv", Payload: []byte("Entity,Status,Count\n")}, nil
}

type stubAuditTrail struct {
	err error
}

func (s stubAuditTrail) Trail(_ context.Context, entity, id string) ([]models.AuditLog, error) {
	if s.err != nil {
		return nil, s.err
	}
	to := "ACTIVE"
	return []models.AuditLog{{ID: "a-1", Entity: entity, EntityID: id, Action: models.AuditActionStatusChange, ToStatus: &to}}, nil
}

var errTeacherMissing = appErrors.Clone(appErrors.ErrNotFound, "teacher not found")

func teacherUser(id string) *models.User {
	return &models.User{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Role:      models.RoleTeacher,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Teacher: &models.TeacherProfile{
			Subject:           "Mathematics",
			HourlyRate:        30,
			TeachingLocations: models.Locations{models.LocationOnline},
			Status:            models.TeacherActive,
			Rating:            4.5,
		},
	}
}

func newTestRouter(h Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, "/api", h)
	return router
}

func serve(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data       json.RawMessage    `json:"data"`
	Error      *appErrors.Error   `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equalf(t, want, rec.Code, "body: %s", rec.Body.String())
}
