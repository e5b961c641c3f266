package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/service"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
	"github.com/ispkai/docrepo-api/pkg/response"
)

// UploadHandler receives multipart file uploads and hands them to storage.
type UploadHandler struct {
	service *service.UploadService
}

// NewUploadHandler creates a new handler.
func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{service: svc}
}

// UploadDocument godoc
// @Summary Upload document file
// @Description Store a document file and return its object key
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Security BearerAuth
// @Router /uploads/documents [post]
func (h *UploadHandler) UploadDocument(c *gin.Context) {
	h.upload(c, h.service.UploadDocument)
}

// UploadCover godoc
// @Summary Upload cover image
// @Description Store a cover image and return its object key
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Cover image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Security BearerAuth
// @Router /uploads/covers [post]
func (h *UploadHandler) UploadCover(c *gin.Context) {
	h.upload(c, h.service.UploadCover)
}

type ingestFunc func(ctx context.Context, ownerID, filename, contentType string, size int64, reader io.Reader) (*dto.UploadResult, error)

func (h *UploadHandler) upload(c *gin.Context, ingest ingestFunc) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read upload"))
		return
	}
	defer file.Close()

	result, err := ingest(c.Request.Context(), claims.UserID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
