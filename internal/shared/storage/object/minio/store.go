package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"docsum-backend/internal/shared/storage/object"
)

// Config holds the connection settings for a MinIO or S3-compatible endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Store implements ObjectStore on top of a MinIO bucket.
type Store struct {
	client *minio.Client
	bucket string
}

// New creates the client and ensures the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}

	ensureCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ensureCtx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, xerr := mc.BucketExists(ensureCtx, cfg.Bucket)
		if xerr != nil || !exists {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return &Store{client: mc, bucket: cfg.Bucket}, nil
}

// Put uploads r under key, refusing to replace an existing object.
func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
		return 0, fmt.Errorf("%w: %s", object.ErrExists, key)
	} else if !isNotFound(err) {
		return 0, fmt.Errorf("minio stat bucket=%s key=%s: %w", s.bucket, key, err)
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return 0, fmt.Errorf("minio put bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return info.Size, nil
}

// Open returns a reader for the stored object.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get bucket=%s key=%s: %w", s.bucket, key, err)
	}
	// GetObject is lazy; stat surfaces a missing key before the caller starts reading.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", object.ErrNotFound, key)
		}
		return nil, fmt.Errorf("minio stat bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return obj, nil
}

// Delete removes the object. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil && !isNotFound(err) {
		return fmt.Errorf("minio remove bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

var _ object.ObjectStore = (*Store)(nil)
