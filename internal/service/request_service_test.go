package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

type requestFixture struct {
	svc      *RequestService
	repo     *mockRequestRepo
	audit    *recordingAudit
	teachers *mockTeacherRepo
}

func newRequestFixture(opts WorkflowOptions, requests ...*models.Request) requestFixture {
	repo := newMockRequestRepo(requests...)
	teachers := newMockTeacherRepo(teacherFixture("t-1", models.TeacherActive))
	audit := &recordingAudit{}
	svc := NewRequestService(RequestServiceParams{
		Repo:     repo,
		Users:    newMockUserRepo(parentFixture("p-1"), teacherFixture("t-1", models.TeacherActive)),
		Teachers: teachers,
		Courses:  newMockCourseRepo(&models.Course{ID: "c-1", TeacherID: "t-1", Subject: "Algebra"}),
		Audit:    audit,
		Options:  opts,
	})
	return requestFixture{svc: svc, repo: repo, audit: audit, teachers: teachers}
}

func TestRequestServiceCreateRoundTrip(t *testing.T) {
	f := newRequestFixture(WorkflowOptions{})

	created, err := f.svc.Create(context.Background(), models.CreateRequestInput{
		ParentID: "p-1", TeacherID: "t-1", CourseID: "c-1", Message: "  Cours du mercredi  ",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, created.Status)
	assert.Equal(t, "Cours du mercredi", created.Message)
	assert.False(t, created.CreatedAt.IsZero())

	stored, err := f.svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "p-1", stored.ParentID)
	assert.Equal(t, "t-1", stored.TeacherID)
	assert.Equal(t, "c-1", stored.CourseID)
	assert.Equal(t, models.RequestPending, stored.Status)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, models.AuditActionCreate, f.audit.entries[0].Action)
}

func TestRequestServiceCreateMissingReferences(t *testing.T) {
	cases := []struct {
		name    string
		input   models.CreateRequestInput
		message string
	}{
		{"parent", models.CreateRequestInput{ParentID: "ghost", TeacherID: "t-1", CourseID: "c-1", Message: "hi"}, "parent not found"},
		{"teacher id is a parent", models.CreateRequestInput{ParentID: "p-1", TeacherID: "p-1", CourseID: "c-1", Message: "hi"}, "teacher not found"},
		{"teacher", models.CreateRequestInput{ParentID: "p-1", TeacherID: "ghost", CourseID: "c-1", Message: "hi"}, "teacher not found"},
		{"course", models.CreateRequestInput{ParentID: "p-1", TeacherID: "t-1", CourseID: "ghost", Message: "hi"}, "course not found"},
		{"parent id is a teacher", models.CreateRequestInput{ParentID: "t-1", TeacherID: "t-1", CourseID: "c-1", Message: "hi"}, "parent not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRequestFixture(WorkflowOptions{})
			_, err := f.svc.Create(context.Background(), tc.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrNotFound))
			assert.Equal(t, tc.message, appErrors.FromError(err).Message)
			assert.Empty(t, f.repo.requests)
		})
	}
}

func TestRequestServiceCreateRequiresMessage(t *testing.T) {
	f := newRequestFixture(WorkflowOptions{})
	_, err := f.svc.Create(context.Background(), models.CreateRequestInput{ParentID: "p-1", TeacherID: "t-1", CourseID: "c-1", Message: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, f.repo.requests)
}

func TestRequestServiceSetStatus(t *testing.T) {
	f := newRequestFixture(WorkflowOptions{}, &models.Request{ID: "r-1", Status: models.RequestApproved})

	updated, err := f.svc.SetStatus(context.Background(), "r-1", "pending")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, updated.Status)

	_, err = f.svc.SetStatus(context.Background(), "r-1", "maybe")
	assert.True(t, errors.Is(err, appErrors.ErrInvalidStatus))
	assert.Equal(t, models.RequestPending, f.repo.requests["r-1"].Status)

	_, err = f.svc.SetStatus(context.Background(), "r-404", "approved")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestRequestServiceStrictModeKeepsDecisionsFinal(t *testing.T) {
	f := newRequestFixture(WorkflowOptions{StrictTransitions: true}, &models.Request{ID: "r-1", Status: models.RequestRejected})

	_, err := f.svc.SetStatus(context.Background(), "r-1", "approved")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Equal(t, models.RequestRejected, f.repo.requests["r-1"].Status)
}

func TestRequestServiceListings(t *testing.T) {
	f := newRequestFixture(WorkflowOptions{},
		&models.Request{ID: "r-1", ParentID: "p-1", TeacherID: "t-1", Status: models.RequestPending},
		&models.Request{ID: "r-2", ParentID: "p-2", TeacherID: "t-1", Status: models.RequestApproved},
	)

	pending, err := f.svc.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "r-1", pending[0].ID)

	byParent, err := f.svc.List(context.Background(), models.RequestFilter{ParentID: "p-2"})
	require.NoError(t, err)
	require.Len(t, byParent, 1)
	assert.Equal(t, "r-2", byParent[0].ID)

	none, err := f.svc.List(context.Background(), models.RequestFilter{TeacherID: "t-9"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
