package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
	"github.com/ispkai/docrepo-api/pkg/storage"
)

type documentRepository interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error)
	FindByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, document *models.Document) error
	Update(ctx context.Context, document *models.Document) error
	Delete(ctx context.Context, id string) error
	CreateVersion(ctx context.Context, version *models.DocumentVersion) error
	ListVersions(ctx context.Context, documentID string) ([]models.DocumentVersion, error)
}

type categoryFinder interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
}

type objectRemover interface {
	Remove(ctx context.Context, bucket, key string) error
	SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	DocumentsBucket() string
	CoversBucket() string
}

// DocumentService provides document management use cases.
type DocumentService struct {
	repo       documentRepository
	categories categoryFinder
	store      objectRemover
	cache      cacheInvalidator
	validator  *validator.Validate
	logger     *zap.Logger
	urlTTL     time.Duration
}

// NewDocumentService constructs a DocumentService instance.
func NewDocumentService(repo documentRepository, categories categoryFinder, store objectRemover, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger, urlTTL time.Duration) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DocumentService{
		repo:       repo,
		categories: categories,
		store:      store,
		cache:      cache,
		validator:  validate,
		logger:     logger,
		urlTTL:     urlTTL,
	}
}

// List returns documents matching the filter, newest first.
func (s *DocumentService) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, error) {
	documents, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	if documents == nil {
		documents = []models.Document{}
	}
	return documents, nil
}

// Get returns a single document by identifier.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	document, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	return document, nil
}

// Create publishes a new document referencing an already uploaded file.
// The rendering capability is computed once here from the file key.
func (s *DocumentService) Create(ctx context.Context, authorID string, req dto.CreateDocumentRequest) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document payload")
	}

	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "category does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category")
	}

	document := &models.Document{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		FileKey:     req.FileKey,
		FileKind:    models.KindForExtension(storage.Extension(req.FileKey)),
		CoverKey:    req.CoverKey,
		Tags:        req.Tags,
		Version:     1,
	}
	if authorID != "" {
		document.AuthorID = &authorID
	}

	if err := s.repo.Create(ctx, document); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create document")
	}

	if s.cache != nil {
		s.cache.InvalidateDashboard(ctx)
	}
	return document, nil
}

// Update patches document metadata. Replacing the file key bumps the version
// and records the previous file in the version history.
func (s *DocumentService) Update(ctx context.Context, id, userID string, req dto.UpdateDocumentRequest) (*models.Document, error) {
	document, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}

	if req.CategoryID != nil && *req.CategoryID != document.CategoryID {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "category does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category")
		}
		document.CategoryID = *req.CategoryID
	}

	if req.Title != nil {
		document.Title = *req.Title
	}
	if req.Description != nil {
		document.Description = req.Description
	}
	if req.CoverKey != nil {
		document.CoverKey = req.CoverKey
	}
	if req.Tags != nil {
		document.Tags = req.Tags
	}

	if req.FileKey != nil && *req.FileKey != document.FileKey {
		previous := &models.DocumentVersion{
			DocumentID: document.ID,
			Version:    document.Version,
			FileKey:    document.FileKey,
		}
		if userID != "" {
			previous.ChangedBy = &userID
		}
		if err := s.repo.CreateVersion(ctx, previous); err != nil {
			s.logger.Warn("failed to record document version", zap.String("document_id", document.ID), zap.Error(err))
		}

		document.FileKey = *req.FileKey
		document.FileKind = models.KindForExtension(storage.Extension(*req.FileKey))
		document.Version++
	}

	if err := s.repo.Update(ctx, document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update document")
	}

	if s.cache != nil {
		s.cache.InvalidateDashboard(ctx)
	}
	return document, nil
}

// Delete removes a document and its stored objects best effort. Every
// sub-step reports its own outcome so partial failures stay visible to the
// caller instead of disappearing into logs.
func (s *DocumentService) Delete(ctx context.Context, id string) (*dto.DocumentDeletionResult, error) {
	document, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}

	result := &dto.DocumentDeletionResult{DocumentID: id}

	fileStep := dto.DeletionStep{
		Target: dto.DeletionTargetFile,
		Bucket: s.store.DocumentsBucket(),
		Key:    document.FileKey,
		Status: dto.DeletionStatusDeleted,
	}
	if err := s.store.Remove(ctx, fileStep.Bucket, fileStep.Key); err != nil {
		fileStep.Status = dto.DeletionStatusFailed
		fileStep.Error = err.Error()
		s.logger.Warn("failed to remove document file", zap.String("key", fileStep.Key), zap.Error(err))
	}
	result.Steps = append(result.Steps, fileStep)

	coverStep := dto.DeletionStep{Target: dto.DeletionTargetCover, Status: dto.DeletionStatusSkipped}
	if document.CoverKey != nil && *document.CoverKey != "" {
		coverStep.Bucket = s.store.CoversBucket()
		coverStep.Key = *document.CoverKey
		coverStep.Status = dto.DeletionStatusDeleted
		if err := s.store.Remove(ctx, coverStep.Bucket, coverStep.Key); err != nil {
			coverStep.Status = dto.DeletionStatusFailed
			coverStep.Error = err.Error()
			s.logger.Warn("failed to remove cover image", zap.String("key", coverStep.Key), zap.Error(err))
		}
	}
	result.Steps = append(result.Steps, coverStep)

	recordStep := dto.DeletionStep{Target: dto.DeletionTargetRecord, Status: dto.DeletionStatusDeleted}
	if err := s.repo.Delete(ctx, id); err != nil {
		recordStep.Status = dto.DeletionStatusFailed
		recordStep.Error = err.Error()
		result.Steps = append(result.Steps, recordStep)
		return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete document record")
	}
	result.Steps = append(result.Steps, recordStep)
	result.Deleted = true

	if s.cache != nil {
		s.cache.InvalidateDashboard(ctx)
	}
	return result, nil
}

// SignedURL issues a time-limited download URL for the document file.
func (s *DocumentService) SignedURL(ctx context.Context, id string) (*dto.SignedURLResponse, error) {
	document, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	if document.FileKey == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document has no file")
	}

	url, err := s.store.SignedURL(ctx, s.store.DocumentsBucket(), document.FileKey, s.urlTTL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign url")
	}

	return &dto.SignedURLResponse{
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(s.urlTTL),
	}, nil
}

// CoverURL issues a time-limited URL for the cover image, when present.
func (s *DocumentService) CoverURL(ctx context.Context, id string) (*dto.SignedURLResponse, error) {
	document, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	if document.CoverKey == nil || *document.CoverKey == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document has no cover")
	}

	url, err := s.store.SignedURL(ctx, s.store.CoversBucket(), *document.CoverKey, s.urlTTL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign url")
	}

	return &dto.SignedURLResponse{
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(s.urlTTL),
	}, nil
}

// Versions returns the version history of a document, newest first.
func (s *DocumentService) Versions(ctx context.Context, id string) ([]models.DocumentVersion, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}

	versions, err := s.repo.ListVersions(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list versions")
	}
	if versions == nil {
		versions = []models.DocumentVersion{}
	}
	return versions, nil
}
