package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ispkai/docrepo-api/internal/service"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
	"github.com/ispkai/docrepo-api/pkg/response"
)

// ReportHandler streams catalog exports.
type ReportHandler struct {
	service *service.ExportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(svc *service.ExportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Catalog godoc
// @Summary Export document catalog
// @Description Export the document catalog as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Param search query string false "Search filter"
// @Param category_id query string false "Category filter"
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/reports/catalog [get]
func (h *ReportHandler) Catalog(c *gin.Context) {
	raw := c.DefaultQuery("format", "csv")
	format, ok := service.ParseReportFormat(raw)
	if !ok {
		response.Error(c, appErrors.Wrap(fmt.Errorf("format %q", raw), appErrors.ErrValidation.Code, http.StatusBadRequest, "unsupported export format"))
		return
	}

	file, err := h.service.Catalog(c.Request.Context(), documentFilterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Payload)
}
