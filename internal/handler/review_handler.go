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

type reviewService interface {
	AddReview(ctx context.Context, input models.CreateReviewInput) (*models.Review, float64, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Review, error)
}

// ReviewHandler exposes teacher review endpoints.
type ReviewHandler struct {
	service reviewService
}

// NewReviewHandler builds a new handler.
func NewReviewHandler(service reviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create godoc
// @Summary Review a teacher
// @Description Appends a review and returns the recomputed teacher rating.
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body models.CreateReviewInput true "Review payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id}/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var input models.CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	input.TeacherID = c.Param("id")

	review, rating, err := h.service.AddReview(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	views := dto.NewReviewViews([]models.Review{*review})
	response.Created(c, dto.ReviewCreated{Review: views[0], TeacherRating: rating})
}

// List godoc
// @Summary List the reviews of a teacher
// @Tags Reviews
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	reviews, err := h.service.ListByTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewReviewViews(reviews), nil)
}
