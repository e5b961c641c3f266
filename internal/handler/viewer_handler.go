package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/pkg/response"
)

type viewerService interface {
	Resolve(ctx context.Context, documentID string, userID *string) (*dto.ViewerResolution, error)
	Download(ctx context.Context, documentID string, userID *string) (*dto.SignedURLResponse, error)
}

// ViewerHandler resolves documents for in-browser viewing and downloads.
type ViewerHandler struct {
	service viewerService
}

// NewViewerHandler creates a new handler.
func NewViewerHandler(svc viewerService) *ViewerHandler {
	return &ViewerHandler{service: svc}
}

// Resolve godoc
// @Summary Resolve viewer mode
// @Description Resolve how a document should be rendered and issue a signed URL
// @Tags Viewer
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{id}/view [get]
func (h *ViewerHandler) Resolve(c *gin.Context) {
	resolution, err := h.service.Resolve(c.Request.Context(), c.Param("id"), userIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resolution, nil)
}

// Download godoc
// @Summary Download document
// @Description Issue a signed download URL and record the download event
// @Tags Viewer
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{id}/download [get]
func (h *ViewerHandler) Download(c *gin.Context) {
	res, err := h.service.Download(c.Request.Context(), c.Param("id"), userIDFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
