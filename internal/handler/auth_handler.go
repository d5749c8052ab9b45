package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuteur-adom-api/internal/dto"
	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
	"github.com/noah-isme/tuteur-adom-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	RegisterTeacher(ctx context.Context, req models.RegisterTeacherRequest) (*models.AuthResult, error)
	RegisterParent(ctx context.Context, req models.RegisterParentRequest) (*models.AuthResult, error)
}

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	service authService
}

// NewAuthHandler builds a new handler.
func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login godoc
// @Summary Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewAuthResponse(result), nil)
}

// RegisterTeacher godoc
// @Summary Register a teacher awaiting vetting
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.RegisterTeacherRequest true "Teacher registration"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register/teacher [post]
func (h *AuthHandler) RegisterTeacher(c *gin.Context) {
	var req models.RegisterTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher registration payload"))
		return
	}
	result, err := h.service.RegisterTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAuthResponse(result))
}

// RegisterParent godoc
// @Summary Register a parent with children
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.RegisterParentRequest true "Parent registration"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register/parent [post]
func (h *AuthHandler) RegisterParent(c *gin.Context) {
	var req models.RegisterParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid parent registration payload"))
		return
	}
	result, err := h.service.RegisterParent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAuthResponse(result))
}

// Me godoc
// @Summary Describe the caller's token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing or invalid bearer token"))
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSessionView(claims), nil)
}
