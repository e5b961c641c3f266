package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/middleware"
	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
)

type fakeViewerSrv struct {
	resolution *dto.ViewerResolution
	signed     *dto.SignedURLResponse
	err        error
	lastUser   *string
}

func (f *fakeViewerSrv) Resolve(_ context.Context, _ string, userID *string) (*dto.ViewerResolution, error) {
	f.lastUser = userID
	return f.resolution, f.err
}

func (f *fakeViewerSrv) Download(_ context.Context, _ string, userID *string) (*dto.SignedURLResponse, error) {
	f.lastUser = userID
	return f.signed, f.err
}

func TestViewerHandlerResolveAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeViewerSrv{
		resolution: &dto.ViewerResolution{DocumentID: "doc-1", Mode: dto.ViewerModePDFEmbed, URL: "http://signed"},
	}
	handler := NewViewerHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/documents/doc-1/view", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.Resolve(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, srv.lastUser)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "PDF_EMBED", envelope.Data["mode"])
}

func TestViewerHandlerResolveCarriesUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeViewerSrv{resolution: &dto.ViewerResolution{Mode: dto.ViewerModeNone}}
	handler := NewViewerHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/documents/doc-1/view", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleViewer})

	handler.Resolve(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, srv.lastUser) {
		assert.Equal(t, "user-1", *srv.lastUser)
	}
}

func TestViewerHandlerResolveNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewViewerHandler(&fakeViewerSrv{
		err: appErrors.Wrap(sql.ErrNoRows, appErrors.ErrNotFound.Code, http.StatusNotFound, "document not found"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/documents/missing/view", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Resolve(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewerHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewViewerHandler(&fakeViewerSrv{
		signed: &dto.SignedURLResponse{URL: "http://signed/download"},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/documents/doc-1/download", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}

	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http://signed/download")
}
