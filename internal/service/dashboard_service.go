package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
)

type dashboardDocumentRepository interface {
	CountAll(ctx context.Context) (int, error)
	CountSince(ctx context.Context, cutoff time.Time) (int, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	ListRecent(ctx context.Context, limit int) ([]models.Document, error)
	ListRecentByAuthor(ctx context.Context, authorID string, limit int) ([]models.Document, error)
}

type categoryCounter interface {
	CountAll(ctx context.Context) (int, error)
}

type userCounter interface {
	CountAll(ctx context.Context) (int, error)
}

type downloadCounter interface {
	CountDownloads(ctx context.Context) (int, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL     time.Duration
	RecentLimit  int
	RecentWindow time.Duration
}

// DashboardService composes the admin and editor overview payloads.
type DashboardService struct {
	documents  dashboardDocumentRepository
	categories categoryCounter
	users      userCounter
	downloads  downloadCounter
	cache      *CacheService
	logger     *zap.Logger
	now        func() time.Time
	cfg        DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Documents  dashboardDocumentRepository
	Categories categoryCounter
	Users      userCounter
	Downloads  downloadCounter
	Cache      *CacheService
	Logger     *zap.Logger
	Config     DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = 7 * 24 * time.Hour
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		documents:  params.Documents,
		categories: params.Categories,
		users:      params.Users,
		downloads:  params.Downloads,
		cache:      params.Cache,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// Admin returns the admin overview and indicates cache utilisation. Document
// counts and the latest-documents list are load bearing; the category, user
// and download counters degrade to zero when their queries fail.
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminOverviewResponse, bool, error) {
	const cacheKey = "dash:admin"
	if s.cache != nil {
		var cached dto.AdminOverviewResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	summary, err := s.composeAdminOverview(ctx)
	if err != nil {
		return nil, false, err
	}
	s.persistCache(ctx, cacheKey, summary)
	return summary, false, nil
}

// Editor returns the overview for one author's documents.
func (s *DashboardService) Editor(ctx context.Context, authorID string) (*dto.EditorOverviewResponse, bool, error) {
	if authorID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "author id is required")
	}
	cacheKey := fmt.Sprintf("dash:editor:%s", authorID)
	if s.cache != nil {
		var cached dto.EditorOverviewResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	own, err := s.documents.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count documents")
	}
	latest, err := s.documents.ListRecentByAuthor(ctx, authorID, s.cfg.RecentLimit)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent documents")
	}
	if latest == nil {
		latest = []models.Document{}
	}

	summary := &dto.EditorOverviewResponse{
		OwnDocuments:    own,
		LatestDocuments: latest,
	}
	s.persistCache(ctx, cacheKey, summary)
	return summary, false, nil
}

func (s *DashboardService) composeAdminOverview(ctx context.Context) (*dto.AdminOverviewResponse, error) {
	var (
		wg sync.WaitGroup

		totalDocs, recentDocs          int
		totalCategories                int
		totalUsers, totalDownloads     int
		latest                         []models.Document
		docsErr, recentErr, latestErr  error
		categoryErr, userErr, downlErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		totalDocs, docsErr = s.documents.CountAll(ctx)
	}()
	go func() {
		defer wg.Done()
		recentDocs, recentErr = s.documents.CountSince(ctx, s.now().UTC().Add(-s.cfg.RecentWindow))
	}()
	go func() {
		defer wg.Done()
		latest, latestErr = s.documents.ListRecent(ctx, s.cfg.RecentLimit)
	}()

	if s.categories != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			totalCategories, categoryErr = s.categories.CountAll(ctx)
		}()
	}
	if s.users != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			totalUsers, userErr = s.users.CountAll(ctx)
		}()
	}
	if s.downloads != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			totalDownloads, downlErr = s.downloads.CountDownloads(ctx)
		}()
	}
	wg.Wait()

	if docsErr != nil {
		return nil, appErrors.Wrap(docsErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count documents")
	}
	if recentErr != nil {
		return nil, appErrors.Wrap(recentErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count recent documents")
	}
	if latestErr != nil {
		return nil, appErrors.Wrap(latestErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent documents")
	}

	if categoryErr != nil {
		s.logger.Warn("category count failed, defaulting to zero", zap.Error(categoryErr))
		totalCategories = 0
	}
	if userErr != nil {
		s.logger.Warn("user count failed, defaulting to zero", zap.Error(userErr))
		totalUsers = 0
	}
	if downlErr != nil {
		s.logger.Warn("download count failed, defaulting to zero", zap.Error(downlErr))
		totalDownloads = 0
	}
	if latest == nil {
		latest = []models.Document{}
	}

	return &dto.AdminOverviewResponse{
		TotalDocuments:  totalDocs,
		RecentDocuments: recentDocs,
		TotalCategories: totalCategories,
		TotalUsers:      totalUsers,
		TotalDownloads:  totalDownloads,
		LatestDocuments: latest,
	}, nil
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
