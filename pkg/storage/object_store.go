package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ispkai/docrepo-api/pkg/config"
)

// ObjectStore wraps the S3-compatible store holding document files and covers.
type ObjectStore struct {
	client          *minio.Client
	documentsBucket string
	coversBucket    string
	region          string
	signedURLTTL    time.Duration
}

// NewObjectStore creates a MinIO client from the storage configuration.
func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store: %w", err)
	}
	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ObjectStore{
		client:          client,
		documentsBucket: cfg.DocumentsBucket,
		coversBucket:    cfg.CoversBucket,
		region:          cfg.Region,
		signedURLTTL:    ttl,
	}, nil
}

// DocumentsBucket returns the bucket name for primary files.
func (s *ObjectStore) DocumentsBucket() string { return s.documentsBucket }

// CoversBucket returns the bucket name for cover images.
func (s *ObjectStore) CoversBucket() string { return s.coversBucket }

// EnsureBuckets makes sure both buckets exist before serving traffic.
func (s *ObjectStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.documentsBucket, s.coversBucket} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
				return fmt.Errorf("make bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

// Upload stores the object under the given key. Single shot, no retry.
func (s *ObjectStore) Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, bucket, key, reader, size, opts); err != nil {
		return fmt.Errorf("upload object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Remove deletes the object if present.
func (s *ObjectStore) Remove(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// SignedURL returns a presigned GET URL valid for the given TTL.
// A non-positive TTL falls back to the configured default.
func (s *ObjectStore) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.signedURLTTL
	}
	u, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object %s/%s: %w", bucket, key, err)
	}
	return u.String(), nil
}

// ListKeys walks the bucket and returns every object key. Used by audit tooling.
func (s *ObjectStore) ListKeys(ctx context.Context, bucket string) ([]string, error) {
	keys := make([]string, 0)
	for object := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", bucket, object.Err)
		}
		keys = append(keys, object.Key)
	}
	return keys, nil
}
