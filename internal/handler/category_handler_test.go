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
	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
)

type fakeCategorySrv struct {
	categories []models.Category
	category   *models.Category
	err        error
	deletedID  string
}

func (f *fakeCategorySrv) List(context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

func (f *fakeCategorySrv) Get(context.Context, string) (*models.Category, error) {
	return f.category, f.err
}

func (f *fakeCategorySrv) Create(_ context.Context, req dto.CreateCategoryRequest) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Category{ID: "cat-1", Name: req.Name}, nil
}

func (f *fakeCategorySrv) Update(context.Context, string, dto.UpdateCategoryRequest) (*models.Category, error) {
	return f.category, f.err
}

func (f *fakeCategorySrv) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return f.err
}

func TestCategoryHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCategoryHandler(&fakeCategorySrv{
		categories: []models.Category{{ID: "cat-1", Name: "Biology", DocumentCount: 3}},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/categories", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Biology")
}

func TestCategoryHandlerDeleteConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCategoryHandler(&fakeCategorySrv{err: appErrors.ErrCategoryInUse})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/admin/categories/cat-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "cat-1"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "CATEGORY_IN_USE", envelope.Error["code"])
}

func TestCategoryHandlerDeleteSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeCategorySrv{}
	handler := NewCategoryHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/admin/categories/cat-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "cat-1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "cat-1", srv.deletedID)
}

func TestCategoryHandlerCreateInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCategoryHandler(&fakeCategorySrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader("not-json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
