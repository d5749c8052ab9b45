package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuteur-adom-api/internal/dto"
	"github.com/noah-isme/tuteur-adom-api/internal/models"
	"github.com/noah-isme/tuteur-adom-api/pkg/response"
)

type parentService interface {
	List(ctx context.Context) ([]models.User, error)
}

// ParentHandler exposes parent listings.
type ParentHandler struct {
	service parentService
}

// NewParentHandler builds a new handler.
func NewParentHandler(service parentService) *ParentHandler {
	return &ParentHandler{service: service}
}

// List godoc
// @Summary List parents with their children
// @Tags Parents
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /parents [get]
func (h *ParentHandler) List(c *gin.Context) {
	parents, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewParentViews(parents), nil)
}
