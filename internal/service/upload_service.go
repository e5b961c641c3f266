package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ispkai/docrepo-api/internal/dto"
	"github.com/ispkai/docrepo-api/pkg/config"
	appErrors "github.com/ispkai/docrepo-api/pkg/errors"
	"github.com/ispkai/docrepo-api/pkg/storage"
)

type objectUploader interface {
	Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error
	DocumentsBucket() string
	CoversBucket() string
}

// UploadService validates and stores incoming files under sanitized,
// collision-free keys.
type UploadService struct {
	store   objectUploader
	cfg     config.StorageConfig
	logger  *zap.Logger
	metrics *MetricsService
	now     func() time.Time
}

// NewUploadService constructs an UploadService instance.
func NewUploadService(store objectUploader, cfg config.StorageConfig, logger *zap.Logger, metrics *MetricsService) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{store: store, cfg: cfg, logger: logger, metrics: metrics, now: time.Now}
}

// UploadDocument ingests a primary document file for the given owner.
func (s *UploadService) UploadDocument(ctx context.Context, ownerID, filename, contentType string, size int64, reader io.Reader) (*dto.UploadResult, error) {
	if err := s.checkLimits(size, s.cfg.MaxDocumentSize, contentType, s.cfg.AllowedDocMIMEs); err != nil {
		return nil, err
	}

	key := storage.DocumentKey(ownerID, filename, s.now())
	bucket := s.store.DocumentsBucket()
	start := time.Now()
	if err := s.store.Upload(ctx, bucket, key, reader, size, contentType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}
	s.metrics.ObserveStorageOperation("upload", time.Since(start))
	s.metrics.RecordUpload(bucket)

	s.logger.Info("document file stored",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int64("size", size))

	return &dto.UploadResult{
		Bucket:      bucket,
		Key:         key,
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// UploadCover ingests a cover image for the given owner.
func (s *UploadService) UploadCover(ctx context.Context, ownerID, filename, contentType string, size int64, reader io.Reader) (*dto.UploadResult, error) {
	if err := s.checkLimits(size, s.cfg.MaxCoverSize, contentType, s.cfg.AllowedImgMIMEs); err != nil {
		return nil, err
	}

	key := storage.CoverKey(ownerID, filename, s.now())
	bucket := s.store.CoversBucket()
	start := time.Now()
	if err := s.store.Upload(ctx, bucket, key, reader, size, contentType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store cover")
	}
	s.metrics.ObserveStorageOperation("upload", time.Since(start))
	s.metrics.RecordUpload(bucket)

	s.logger.Info("cover image stored",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int64("size", size))

	return &dto.UploadResult{
		Bucket:      bucket,
		Key:         key,
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

func (s *UploadService) checkLimits(size, maxSize int64, contentType string, allowed []string) error {
	if size <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "empty upload")
	}
	if maxSize > 0 && size > maxSize {
		return appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds the %d byte limit", maxSize))
	}
	if len(allowed) > 0 && !containsMIME(allowed, contentType) {
		return appErrors.Clone(appErrors.ErrUnsupportedMedia, fmt.Sprintf("content type %q is not allowed", contentType))
	}
	return nil
}

func containsMIME(allowed []string, contentType string) bool {
	for _, mime := range allowed {
		if mime == contentType {
			return true
		}
	}
	return false
}
