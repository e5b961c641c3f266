package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/middleware"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
	"github.com/ispkai/docrepo-api/pkg/response"
)

type dashboardService interface {
	Admin(ctx context.Context) (*dto.AdminOverviewResponse, bool, error)
	Editor(ctx context.Context, authorID string) (*dto.EditorOverviewResponse, bool, error)
}

// DashboardHandler serves the aggregated dashboard overviews.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Admin godoc
// @Summary Admin dashboard overview
// @Description Aggregate document, category, user and download counts with the latest documents
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard/admin [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	overview, cached, err := h.service.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, overview, nil, middleware.ExtractMeta(c))
}

// Editor godoc
// @Summary Editor dashboard overview
// @Description Summarise the signed-in editor's own documents
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard/editor [get]
func (h *DashboardHandler) Editor(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	overview, cached, err := h.service.Editor(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, overview, nil, middleware.ExtractMeta(c))
}
