package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

// statusLabel reads the target status from the ?status= query or a {"status": ...} body.
func statusLabel(c *gin.Context) (string, error) {
	if label := strings.TrimSpace(c.Query("status")); label != "" {
		return label, nil
	}
	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status is required")
	}
	return req.Status, nil
}
