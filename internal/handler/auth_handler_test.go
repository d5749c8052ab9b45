package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuteur-adom-api/internal/dto"
	"github.com/noah-isme/tuteur-adom-api/internal/middleware"
	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

type stubAuthService struct {
	err error
}

func (s stubAuthService) Login(_ context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.AuthResult{User: &models.User{ID: "u-1", Email: req.Email, Role: models.RoleAdmin}, Token: "tok"}, nil
}

func (s stubAuthService) RegisterTeacher(_ context.Context, req models.RegisterTeacherRequest) (*models.AuthResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	user := teacherUser("t-new")
	user.Email = req.Email
	user.Teacher.Status = models.TeacherPending
	return &models.AuthResult{User: user, Token: "tok"}, nil
}

func (s stubAuthService) RegisterParent(_ context.Context, req models.RegisterParentRequest) (*models.AuthResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.AuthResult{User: &models.User{ID: "p-new", Email: req.Email, Role: models.RoleParent, Parent: &models.ParentProfile{}}, Token: "tok"}, nil
}

func TestAuthHandlerRegisterTeacher(t *testing.T) {
	router := newTestRouter(Handlers{Auth: NewAuthHandler(stubAuthService{})})

	rec := serve(router, http.MethodPost, "/api/auth/register/teacher", models.RegisterTeacherRequest{
		Email: "new@example.com", Password: "secret1", FirstName: "Ada", LastName: "L", Subject: "Maths",
	})

	assertStatus(t, rec, http.StatusCreated)
	var body struct {
		User  dto.TeacherView `json:"user"`
		Token string          `json:"token"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &body))
	assert.Equal(t, "tok", body.Token)
	assert.Equal(t, "pending", body.User.Status)
}

func TestAuthHandlerRegisterDuplicateEmail(t *testing.T) {
	svc := stubAuthService{err: appErrors.Clone(appErrors.ErrConflict, "email already registered")}
	router := newTestRouter(Handlers{Auth: NewAuthHandler(svc)})

	rec := serve(router, http.MethodPost, "/api/auth/register/parent", models.RegisterParentRequest{Email: "dup@example.com", Password: "secret1"})

	assertStatus(t, rec, http.StatusConflict)
}

func TestAuthHandlerLoginFailure(t *testing.T) {
	router := newTestRouter(Handlers{Auth: NewAuthHandler(stubAuthService{err: appErrors.ErrInvalidCredentials})})

	rec := serve(router, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: "a@example.com", Password: "x"})

	assertStatus(t, rec, http.StatusUnauthorized)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, decode(t, rec).Error.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(stubAuthService{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	handler.Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID:           "u-1",
		Role:             models.RoleParent,
		Email:            "p@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expires)},
	})
	handler.Me(c)

	assertStatus(t, rec, http.StatusOK)
	var view dto.SessionView
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &view))
	assert.Equal(t, "u-1", view.UserID)
	assert.Equal(t, "PARENT", view.Role)
	require.NotNil(t, view.ExpiresAt)
	assert.True(t, expires.Equal(*view.ExpiresAt))
}
