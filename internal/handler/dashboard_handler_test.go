package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/middleware"
	"github.com/ispkai/docrepo-api/internal/models"
)

type fakeDashboardSrv struct {
	adminResp    *dto.AdminOverviewResponse
	adminErr     error
	adminHit     bool
	editorResp   *dto.EditorOverviewResponse
	editorErr    error
	editorHit    bool
	editorAuthor string
}

func (f *fakeDashboardSrv) Admin(context.Context) (*dto.AdminOverviewResponse, bool, error) {
	return f.adminResp, f.adminHit, f.adminErr
}

func (f *fakeDashboardSrv) Editor(_ context.Context, authorID string) (*dto.EditorOverviewResponse, bool, error) {
	f.editorAuthor = authorID
	return f.editorResp, f.editorHit, f.editorErr
}

func TestDashboardHandlerAdminSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		adminResp: &dto.AdminOverviewResponse{TotalDocuments: 42},
		adminHit:  true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/admin", nil)

	handler.Admin(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, float64(42), envelope.Data["total_documents"])
}

func TestDashboardHandlerEditorUsesClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{editorResp: &dto.EditorOverviewResponse{OwnDocuments: 7}}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/editor", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleEditor})

	handler.Editor(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", srv.editorAuthor)
}

func TestDashboardHandlerEditorRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/editor", nil)

	handler.Editor(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error map[string]interface{} `json:"error"`
}
