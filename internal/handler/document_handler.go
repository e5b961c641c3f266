package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
	"github.com/ispkai/docrepo-api/pkg/response"
)

type documentService interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error)
	Get(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, authorID string, req dto.CreateDocumentRequest) (*models.Document, error)
	Update(ctx context.Context, id, userID string, req dto.UpdateDocumentRequest) (*models.Document, error)
	Delete(ctx context.Context, id string) (*dto.DocumentDeletionResult, error)
	Versions(ctx context.Context, id string) ([]models.DocumentVersion, error)
	SignedURL(ctx context.Context, id string) (*dto.SignedURLResponse, error)
	CoverURL(ctx context.Context, id string) (*dto.SignedURLResponse, error)
}

// DocumentHandler exposes document browsing and management endpoints.
type DocumentHandler struct {
	service documentService
}

// NewDocumentHandler creates a new handler.
func NewDocumentHandler(svc documentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

func documentFilterFromQuery(c *gin.Context) models.DocumentFilter {
	filter := models.DocumentFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category_id"),
		AuthorID:   c.Query("author_id"),
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	return filter
}

// List godoc
// @Summary List documents
// @Description List documents newest first, optionally filtered by category, author or search term
// @Tags Documents
// @Produce json
// @Param search query string false "Search in title, description, category and tags"
// @Param category_id query string false "Filter by category"
// @Param author_id query string false "Filter by author"
// @Param limit query int false "Maximum number of results"
// @Success 200 {object} response.Envelope
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	documents, err := h.service.List(c.Request.Context(), documentFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, documents, nil)
}

// Get godoc
// @Summary Get document
// @Description Get a single document by id
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	document, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, document, nil)
}

// Create godoc
// @Summary Create document
// @Description Register a document record referencing an already uploaded file
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body dto.CreateDocumentRequest true "Document payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document payload"))
		return
	}

	document, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, document)
}

// Update godoc
// @Summary Update document
// @Description Patch document metadata; replacing the file key archives the previous version
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param payload body dto.UpdateDocumentRequest true "Document patch"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/{id} [put]
func (h *DocumentHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document patch"))
		return
	}

	document, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, document, nil)
}

// Delete godoc
// @Summary Delete document
// @Description Delete a document and its stored objects, reporting per-step outcomes
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	result, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if result != nil {
			// Partial outcome: the record survived, report the steps taken.
			response.JSON(c, http.StatusMultiStatus, result, nil)
			return
		}
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Versions godoc
// @Summary List document versions
// @Description List archived file versions for a document, newest first
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/{id}/versions [get]
func (h *DocumentHandler) Versions(c *gin.Context) {
	versions, err := h.service.Versions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, versions, nil)
}

// SignedURL godoc
// @Summary Get signed file URL
// @Description Issue a time-limited URL for the document's file
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /documents/{id}/url [get]
func (h *DocumentHandler) SignedURL(c *gin.Context) {
	res, err := h.service.SignedURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// CoverURL godoc
// @Summary Get signed cover URL
// @Description Issue a time-limited URL for the document's cover image
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{id}/cover [get]
func (h *DocumentHandler) CoverURL(c *gin.Context) {
	res, err := h.service.CoverURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
