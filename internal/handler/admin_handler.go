package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuteur-adom-api/internal/dto"
	"github.com/noah-isme/tuteur-adom-api/internal/models"
	"github.com/noah-isme/tuteur-adom-api/internal/service"
	"github.com/noah-isme/tuteur-adom-api/pkg/response"
)

type statsService interface {
	Platform(ctx context.Context) (*models.PlatformStats, error)
	Export(ctx context.Context, rawFormat string) (*service.StatsExport, error)
}

type auditTrail interface {
	Trail(ctx context.Context, entity, entityID string) ([]models.AuditLog, error)
}

type reportArchive interface {
	Archive(ctx context.Context, rawFormat string) (*service.ArchivedReport, error)
	Open(token string) (*service.ReportFile, error)
}

// AdminHandler serves platform statistics and the audit trail.
type AdminHandler struct {
	stats   statsService
	audit   auditTrail
	archive reportArchive
}

// NewAdminHandler builds a new handler.
func NewAdminHandler(stats statsService, audit auditTrail, archive reportArchive) *AdminHandler {
	return &AdminHandler{stats: stats, audit: audit, archive: archive}
}

// Stats godoc
// @Summary Platform statistics
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Platform(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewPlatformStatsView(stats), nil)
}

// Export godoc
// @Summary Download platform statistics
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/stats/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	report, err := h.stats.Export(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, report.Filename, report.ContentType, report.Payload)
}

// Audit godoc
// @Summary Audit trail of an entity
// @Tags Admin
// @Produce json
// @Param entity path string true "teacher, request, appointment or review"
// @Param id path string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/audit/{entity}/{id} [get]
func (h *AdminHandler) Audit(c *gin.Context) {
	entries, err := h.audit.Trail(c.Request.Context(), c.Param("entity"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewAuditEntryViews(entries), nil)
}

// Archive godoc
// @Summary Store a statistics report behind a signed link
// @Tags Admin
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/stats/exports [post]
func (h *AdminHandler) Archive(c *gin.Context) {
	report, err := h.archive.Archive(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ArchivedReportView{
		ID:        report.ID,
		Filename:  report.Filename,
		URL:       report.URL,
		ExpiresAt: report.ExpiresAt,
	})
}

// Download godoc
// @Summary Download an archived statistics report
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /admin/stats/exports/{token} [get]
func (h *AdminHandler) Download(c *gin.Context) {
	file, err := h.archive.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.File.Close() //nolint:errcheck

	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, file.File, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Filename),
	})
}
