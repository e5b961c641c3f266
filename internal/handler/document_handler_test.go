package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/middleware"
	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
)

type fakeDocumentSrv struct {
	documents  []models.Document
	document   *models.Document
	deletion   *dto.DocumentDeletionResult
	signed     *dto.SignedURLResponse
	err        error
	lastFilter models.DocumentFilter
	lastAuthor string
}

func (f *fakeDocumentSrv) List(_ context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	f.lastFilter = filter
	return f.documents, f.err
}

func (f *fakeDocumentSrv) Get(context.Context, string) (*models.Document, error) {
	return f.document, f.err
}

func (f *fakeDocumentSrv) Create(_ context.Context, authorID string, _ dto.CreateDocumentRequest) (*models.Document, error) {
	f.lastAuthor = authorID
	return f.document, f.err
}

func (f *fakeDocumentSrv) Update(context.Context, string, string, dto.UpdateDocumentRequest) (*models.Document, error) {
	return f.document, f.err
}

func (f *fakeDocumentSrv) Delete(context.Context, string) (*dto.DocumentDeletionResult, error) {
	return f.deletion, f.err
}

func (f *fakeDocumentSrv) Versions(context.Context, string) ([]models.DocumentVersion, error) {
	return nil, f.err
}

func (f *fakeDocumentSrv) SignedURL(context.Context, string) (*dto.SignedURLResponse, error) {
	return f.signed, f.err
}

func (f *fakeDocumentSrv) CoverURL(context.Context, string) (*dto.SignedURLResponse, error) {
	return f.signed, f.err
}

func TestDocumentHandlerListParsesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDocumentSrv{}
	handler := NewDocumentHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/documents?search=genetics&category_id=cat-1&limit=10", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "genetics", srv.lastFilter.Search)
	assert.Equal(t, "cat-1", srv.lastFilter.CategoryID)
	assert.Equal(t, 10, srv.lastFilter.Limit)
}

func TestDocumentHandlerCreateUsesClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDocumentSrv{document: &models.Document{ID: "doc-1"}}
	handler := NewDocumentHandler(srv)

	body := `{"title":"Genetics Intro","category_id":"cat-1","file_key":"u1/1-genetics.pdf"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleEditor})

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", srv.lastAuthor)
}

func TestDocumentHandlerCreateRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDocumentHandler(&fakeDocumentSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDocumentHandlerDeleteReportsSteps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDocumentHandler(&fakeDocumentSrv{
		deletion: &dto.DocumentDeletionResult{
			DocumentID: "doc-1",
			Deleted:    true,
			Steps: []dto.DeletionStep{
				{Target: dto.DeletionTargetFile, Status: dto.DeletionStatusDeleted},
				{Target: dto.DeletionTargetCover, Status: dto.DeletionStatusSkipped},
				{Target: dto.DeletionTargetRecord, Status: dto.DeletionStatusDeleted},
			},
		},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/documents/doc-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Data["deleted"])
	assert.Len(t, envelope.Data["steps"], 3)
}

func TestDocumentHandlerDeletePartialFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDocumentHandler(&fakeDocumentSrv{
		deletion: &dto.DocumentDeletionResult{
			DocumentID: "doc-1",
			Steps: []dto.DeletionStep{
				{Target: dto.DeletionTargetFile, Status: dto.DeletionStatusDeleted},
				{Target: dto.DeletionTargetCover, Status: dto.DeletionStatusSkipped},
				{Target: dto.DeletionTargetRecord, Status: dto.DeletionStatusFailed, Error: "connection reset"},
			},
		},
		err: appErrors.ErrInternal,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/documents/doc-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, false, envelope.Data["deleted"])
}
