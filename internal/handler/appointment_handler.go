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

type appointmentService interface {
	Promote(ctx context.Context, input models.PromoteRequestInput) (*models.Appointment, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
	SetStatus(ctx context.Context, id, label string) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
}

// AppointmentHandler exposes appointment endpoints.
type AppointmentHandler struct {
	service appointmentService
}

// NewAppointmentHandler builds a new handler.
func NewAppointmentHandler(service appointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Create godoc
// @Summary Schedule an appointment from a request
// @Description The location is the display label, for example "En ligne". The request status is not changed.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param payload body models.PromoteRequestInput true "Appointment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	var input models.PromoteRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid appointment payload"))
		return
	}
	appt, err := h.service.Promote(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewAppointmentView(*appt))
}

// Get godoc
// @Summary Get an appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewAppointmentView(*appt), nil)
}

// SetStatus godoc
// @Summary Change the status of an appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param status query string false "SCHEDULED, COMPLETED or CANCELLED"
// @Param payload body models.StatusUpdateRequest false "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments/{id}/status [put]
func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	label, err := statusLabel(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	appt, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), label)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewAppointmentView(*appt), nil)
}

// List godoc
// @Summary List every appointment
// @Tags Appointments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	h.list(c, models.AppointmentFilter{})
}

// ByParent godoc
// @Summary List the appointments of a parent
// @Tags Appointments
// @Produce json
// @Param id path string true "Parent ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/parent/{id} [get]
func (h *AppointmentHandler) ByParent(c *gin.Context) {
	h.list(c, models.AppointmentFilter{ParentID: c.Param("id")})
}

// ByTeacher godoc
// @Summary List the appointments of a teacher
// @Tags Appointments
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/teacher/{id} [get]
func (h *AppointmentHandler) ByTeacher(c *gin.Context) {
	h.list(c, models.AppointmentFilter{TeacherID: c.Param("id")})
}

func (h *AppointmentHandler) list(c *gin.Context, filter models.AppointmentFilter) {
	appts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewAppointmentViews(appts), nil)
}
