package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/internal/models"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
	"github.com/ispkai/docrepo-api/pkg/storage"
)

type documentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Document, error)
}

type urlSigner interface {
	SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	DocumentsBucket() string
}

type eventPublisher interface {
	PublishView(documentID string, userID *string, viewerMode string)
	PublishDownload(documentID string, userID *string)
}

// ViewerService resolves how a document should be rendered. The decision is
// keyed off the capability stored at ingestion, never re-derived from the
// object store.
type ViewerService struct {
	documents documentFinder
	store     urlSigner
	events    eventPublisher
	logger    *zap.Logger
	urlTTL    time.Duration
}

// NewViewerService constructs a ViewerService instance.
func NewViewerService(documents documentFinder, store urlSigner, events eventPublisher, logger *zap.Logger, urlTTL time.Duration) *ViewerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewerService{
		documents: documents,
		store:     store,
		events:    events,
		logger:    logger,
		urlTTL:    urlTTL,
	}
}

// Resolve returns the rendering strategy and a signed URL for a document.
// A document without a file resolves to the NONE mode and never touches the
// signer.
func (s *ViewerService) Resolve(ctx context.Context, documentID string, userID *string) (*dto.ViewerResolution, error) {
	document, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}

	if document.FileKey == "" {
		return &dto.ViewerResolution{
			DocumentID: document.ID,
			Mode:       dto.ViewerModeNone,
		}, nil
	}

	url, err := s.store.SignedURL(ctx, s.store.DocumentsBucket(), document.FileKey, s.urlTTL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign url")
	}

	// Rows created before kinds were stored carry an empty kind.
	kind := document.FileKind
	if kind == "" {
		kind = models.KindForExtension(storage.Extension(document.FileKey))
	}

	resolution := &dto.ViewerResolution{
		DocumentID: document.ID,
		Mode:       modeForKind(kind),
		Extension:  storage.Extension(document.FileKey),
		URL:        url,
		ExpiresAt:  time.Now().UTC().Add(s.urlTTL),
	}

	if s.events != nil {
		s.events.PublishView(document.ID, userID, string(resolution.Mode))
	}
	return resolution, nil
}

// Download issues a signed URL for the document file and records the
// download.
func (s *ViewerService) Download(ctx context.Context, documentID string, userID *string) (*dto.SignedURLResponse, error) {
	document, err := s.documents.FindByID(ctx, documentID)
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

	if s.events != nil {
		s.events.PublishDownload(document.ID, userID)
	}

	return &dto.SignedURLResponse{
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(s.urlTTL),
	}, nil
}

func modeForKind(kind models.FileKind) dto.ViewerMode {
	switch kind {
	case models.FileKindPDF:
		return dto.ViewerModePDFEmbed
	case models.FileKindImage:
		return dto.ViewerModeImageInline
	case models.FileKindOffice:
		return dto.ViewerModeDownloadOnly
	default:
		return dto.ViewerModeUnsupported
	}
}
