package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ispkai/docrepo-api/internal/models"
)

type dashboardDocsStub struct {
	total     int
	recent    int
	byAuthor  map[string]int
	latest    []models.Document
	totalErr  error
	recentErr error
	latestErr error
}

func (s *dashboardDocsStub) CountAll(ctx context.Context) (int, error) {
	return s.total, s.totalErr
}

func (s *dashboardDocsStub) CountSince(ctx context.Context, cutoff time.Time) (int, error) {
	return s.recent, s.recentErr
}

func (s *dashboardDocsStub) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	return s.byAuthor[authorID], nil
}

func (s *dashboardDocsStub) ListRecent(ctx context.Context, limit int) ([]models.Document, error) {
	return s.latest, s.latestErr
}

func (s *dashboardDocsStub) ListRecentByAuthor(ctx context.Context, authorID string, limit int) ([]models.Document, error) {
	return s.latest, nil
}

type counterStub struct {
	value int
	err   error
}

func (s *counterStub) CountAll(ctx context.Context) (int, error) {
	return s.value, s.err
}

type downloadCounterStub struct {
	value int
	err   error
}

func (s *downloadCounterStub) CountDownloads(ctx context.Context) (int, error) {
	return s.value, s.err
}

func TestDashboardAdminOverview(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Documents:  &dashboardDocsStub{total: 12, recent: 3, latest: []models.Document{{ID: "d1"}}},
		Categories: &counterStub{value: 4},
		Users:      &counterStub{value: 7},
		Downloads:  &downloadCounterStub{value: 42},
	})

	overview, cached, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 12, overview.TotalDocuments)
	assert.Equal(t, 3, overview.RecentDocuments)
	assert.Equal(t, 4, overview.TotalCategories)
	assert.Equal(t, 7, overview.TotalUsers)
	assert.Equal(t, 42, overview.TotalDownloads)
	require.Len(t, overview.LatestDocuments, 1)
}

func TestDashboardAdminNonCriticalCountsDegrade(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Documents:  &dashboardDocsStub{total: 5, recent: 1},
		Categories: &counterStub{err: errors.New("boom")},
		Users:      &counterStub{err: errors.New("boom")},
		Downloads:  &downloadCounterStub{err: errors.New("boom")},
	})

	overview, _, err := svc.Admin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, overview.TotalDocuments)
	assert.Zero(t, overview.TotalCategories)
	assert.Zero(t, overview.TotalUsers)
	assert.Zero(t, overview.TotalDownloads)
	assert.NotNil(t, overview.LatestDocuments)
}

func TestDashboardAdminDocumentCountIsLoadBearing(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Documents: &dashboardDocsStub{totalErr: errors.New("db down")},
	})

	_, _, err := svc.Admin(context.Background())
	require.Error(t, err)
}

func TestDashboardAdminLatestListIsLoadBearing(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Documents: &dashboardDocsStub{latestErr: errors.New("db down")},
	})

	_, _, err := svc.Admin(context.Background())
	require.Error(t, err)
}

func TestDashboardEditorOverview(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Documents: &dashboardDocsStub{
			byAuthor: map[string]int{"u1": 6},
			latest:   []models.Document{{ID: "d1"}, {ID: "d2"}},
		},
	})

	overview, _, err := svc.Editor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 6, overview.OwnDocuments)
	assert.Len(t, overview.LatestDocuments, 2)
}

func TestDashboardEditorRequiresAuthor(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{Documents: &dashboardDocsStub{}})

	_, _, err := svc.Editor(context.Background(), "")
	require.Error(t, err)
}
