package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuteur-adom-api/internal/dto"
	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
	"github.com/noah-isme/tuteur-adom-api/pkg/response"
)

type teacherService interface {
	SetStatus(ctx context.Context, id, label string) (*models.User, error)
	Search(ctx context.Context, filter models.TeacherSearch) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	ListForAdmin(ctx context.Context, statusLabel string, page, pageSize int) ([]models.User, *models.Pagination, error)
	Pending(ctx context.Context) ([]models.User, error)
	Stats(ctx context.Context) (models.StatusBreakdown, error)
	UpdateProfile(ctx context.Context, id string, req models.UpdateTeacherRequest) (*models.User, error)
}

// TeacherHandler exposes marketplace search and teacher vetting endpoints.
type TeacherHandler struct {
	service teacherService
}

// NewTeacherHandler builds a new handler.
func NewTeacherHandler(service teacherService) *TeacherHandler {
	return &TeacherHandler{service: service}
}

// Search godoc
// @Summary Search active teachers
// @Description Only ACTIVE teachers are returned. Results are ordered by rating, then last name.
// @Tags Teachers
// @Produce json
// @Param subject query string false "Case-insensitive subject substring"
// @Param minHourlyRate query number false "Inclusive lower rate bound"
// @Param maxHourlyRate query number false "Inclusive upper rate bound"
// @Param location query string false "ONLINE, HOME or TEACHER_PLACE"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) Search(c *gin.Context) {
	filter := models.TeacherSearch{Subject: c.Query("subject")}
	var err error
	if filter.MinRate, err = optionalFloat(c, "minHourlyRate"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.MaxRate, err = optionalFloat(c, "maxHourlyRate"); err != nil {
		response.Error(c, err)
		return
	}
	if raw := c.Query("location"); raw != "" {
		if loc, ok := models.LocationFromSymbol(raw); ok {
			filter.Location = &loc
		}
	}

	teachers, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTeacherViews(teachers), nil)
}

// Get godoc
// @Summary Get a teacher with reviews
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTeacherView(*teacher), nil)
}

// Pending godoc
// @Summary List teachers awaiting vetting
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers/admin/pending [get]
func (h *TeacherHandler) Pending(c *gin.Context) {
	teachers, err := h.service.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTeacherViews(teachers), nil)
}

// ListAll godoc
// @Summary List teachers for administrators
// @Description An unknown status lists every teacher.
// @Tags Teachers
// @Produce json
// @Param status query string false "PENDING, ACTIVE or SUSPENDED"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size, omitted for all rows"
// @Success 200 {object} response.Envelope
// @Router /teachers/admin/all [get]
func (h *TeacherHandler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	teachers, pagination, err := h.service.ListForAdmin(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTeacherViews(teachers), pagination)
}

// Stats godoc
// @Summary Count teachers per vetting status
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers/admin/stats [get]
func (h *TeacherHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewStatusCounts(stats), nil)
}

// SetStatus godoc
// @Summary Change the vetting status of a teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param status query string false "Target status, case-insensitive"
// @Param payload body models.StatusUpdateRequest false "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id}/status [put]
func (h *TeacherHandler) SetStatus(c *gin.Context) {
	label, err := statusLabel(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	teacher, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), label)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTeacherView(*teacher), nil)
}

// Update godoc
// @Summary Update a teacher profile
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body models.UpdateTeacherRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	var req models.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}
	teacher, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewTeacherView(*teacher), nil)
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+key)
	}
	return &value, nil
}
