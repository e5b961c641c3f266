package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/models"
	"github.com/ispkai/docrepo-api/internal/repository"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
)

type categoryRepoStub struct {
	items     map[string]models.Category
	deleteErr error
}

func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	result := []models.Category{}
	for _, category := range s.items {
		result = append(result, category)
	}
	return result, nil
}

func (s *categoryRepoStub) FindByID(ctx context.Context, id string) (*models.Category, error) {
	if category, ok := s.items[id]; ok {
		return &category, nil
	}
	return nil, sql.ErrNoRows
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	if s.items == nil {
		s.items = make(map[string]models.Category)
	}
	if category.ID == "" {
		category.ID = "generated"
	}
	s.items[category.ID] = *category
	return nil
}

func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	if _, ok := s.items[category.ID]; !ok {
		return sql.ErrNoRows
	}
	s.items[category.ID] = *category
	return nil
}

func (s *categoryRepoStub) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.items, id)
	return nil
}

type cacheInvalidatorStub struct {
	calls int
}

func (s *cacheInvalidatorStub) InvalidateDashboard(ctx context.Context) {
	s.calls++
}

func TestCategoryServiceDeleteInUse(t *testing.T) {
	repo := &categoryRepoStub{
		items:     map[string]models.Category{"c1": {ID: "c1", Name: "Biology"}},
		deleteErr: repository.ErrCategoryInUse,
	}
	svc := NewCategoryService(repo, nil, nil, nil)

	err := svc.Delete(context.Background(), "c1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrCategoryInUse.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrCategoryInUse.Status, appErr.Status)
}

func TestCategoryServiceDeleteMissing(t *testing.T) {
	repo := &categoryRepoStub{items: map[string]models.Category{}}
	svc := NewCategoryService(repo, nil, nil, nil)

	err := svc.Delete(context.Background(), "nope")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCategoryServiceDeleteInvalidatesCache(t *testing.T) {
	repo := &categoryRepoStub{items: map[string]models.Category{"c1": {ID: "c1"}}}
	cache := &cacheInvalidatorStub{}
	svc := NewCategoryService(repo, cache, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	assert.Equal(t, 1, cache.calls)
}

func TestCategoryServiceCreateValidates(t *testing.T) {
	repo := &categoryRepoStub{}
	svc := NewCategoryService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateCategoryRequest{})
	require.Error(t, err)

	category, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, "Physics", category.Name)
}

func TestCategoryServiceUpdate(t *testing.T) {
	repo := &categoryRepoStub{items: map[string]models.Category{"c1": {ID: "c1", Name: "Old"}}}
	svc := NewCategoryService(repo, nil, nil, nil)

	updated, err := svc.Update(context.Background(), "c1", dto.UpdateCategoryRequest{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
}
