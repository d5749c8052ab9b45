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

type requestService interface {
	Create(ctx context.Context, input models.CreateRequestInput) (*models.Request, error)
	Get(ctx context.Context, id string) (*models.Request, error)
	SetStatus(ctx context.Context, id, label string) (*models.Request, error)
	List(ctx context.Context, filter models.RequestFilter) ([]models.Request, error)
	Pending(ctx context.Context) ([]models.Request, error)
}

// RequestHandler exposes booking request endpoints.
type RequestHandler struct {
	service requestService
}

// NewRequestHandler builds a new handler.
func NewRequestHandler(service requestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create godoc
// @Summary File a booking request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body models.CreateRequestInput true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var input models.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}
	req, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewRequestView(*req))
}

// Get godoc
// @Summary Get a booking request
// @Tags Requests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewRequestView(*req), nil)
}

// SetStatus godoc
// @Summary Change the status of a booking request
// @Tags Requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param payload body models.StatusUpdateRequest false "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id}/status [put]
func (h *RequestHandler) SetStatus(c *gin.Context) {
	label, err := statusLabel(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), label)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewRequestView(*req), nil)
}

// List godoc
// @Summary List every booking request
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	h.list(c, models.RequestFilter{})
}

// ByParent godoc
// @Summary List the requests of a parent
// @Tags Requests
// @Produce json
// @Param id path string true "Parent ID"
// @Success 200 {object} response.Envelope
// @Router /requests/parent/{id} [get]
func (h *RequestHandler) ByParent(c *gin.Context) {
	h.list(c, models.RequestFilter{ParentID: c.Param("id")})
}

// ByTeacher godoc
// @Summary List the requests addressed to a teacher
// @Tags Requests
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /requests/teacher/{id} [get]
func (h *RequestHandler) ByTeacher(c *gin.Context) {
	h.list(c, models.RequestFilter{TeacherID: c.Param("id")})
}

// Pending godoc
// @Summary List requests awaiting a decision
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests/pending [get]
func (h *RequestHandler) Pending(c *gin.Context) {
	requests, err := h.service.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewRequestViews(requests), nil)
}

func (h *RequestHandler) list(c *gin.Context, filter models.RequestFilter) {
	requests, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewRequestViews(requests), nil)
}
