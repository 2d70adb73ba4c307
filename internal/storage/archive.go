package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"siteship/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveStore uploads packaged site archives to object storage and issues
// public download URLs. The bucket is assumed public-read.
type ArchiveStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool

	initOnce sync.Once
	initErr  error
}

// NewArchiveStore creates a store against the configured S3-compatible endpoint
func NewArchiveStore(cfg config.StorageConfig) (*ArchiveStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}

	return &ArchiveStore{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		useSSL:   cfg.UseSSL,
	}, nil
}

func (s *ArchiveStore) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	})
	return s.initErr
}

// Upload stores the archive under the given object key and returns its
// public URL
func (s *ArchiveStore) Upload(ctx context.Context, objectKey, archivePath string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	_, err := s.client.FPutObject(ctx, s.bucket, objectKey, archivePath, minio.PutObjectOptions{
		ContentType: "application/zip",
	})
	if err != nil {
		return "", fmt.Errorf("upload archive: %w", err)
	}

	return s.publicURL(objectKey), nil
}

func (s *ArchiveStore) publicURL(objectKey string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectKey)
}

// ObjectKey builds the storage key for one packaged turn:
// <user>/<project>/<timestamp>/site.zip
func ObjectKey(userID, projectName string, now time.Time) string {
	name := strings.ReplaceAll(strings.TrimSpace(projectName), " ", "-")
	return fmt.Sprintf("%s/%s/%s/site.zip", userID, name, now.UTC().Format("20060102150405"))
}
