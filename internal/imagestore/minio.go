package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"shop-admin/internal/config"
	"shop-admin/internal/domain"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// objectClient is the part of *minio.Client the store uses
type objectClient interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// MinioStore keeps images in an S3 compatible bucket
type MinioStore struct {
	client  objectClient
	bucket  string
	folder  string
	baseURL string
	logger  *zap.Logger
}

// NewMinioStore connects to MinIO and ensures the bucket exists
func NewMinioStore(cfg config.MinioConfig, folder string, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("Created image bucket", zap.String("bucket", cfg.Bucket))
	}

	return newMinioStore(client, cfg, folder, logger), nil
}

func newMinioStore(client objectClient, cfg config.MinioConfig, folder string, logger *zap.Logger) *MinioStore {
	return &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		folder:  folder,
		baseURL: publicBaseURL(cfg),
		logger:  logger.Named("minio"),
	}
}

// Upload puts the image under a generated key; the key is the public id
func (s *MinioStore) Upload(ctx context.Context, file ImageFile) (UploadResult, error) {
	key := objectKey(s.folder, uuid.NewString(), file.Filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(file.Content), int64(len(file.Content)),
		minio.PutObjectOptions{ContentType: file.ContentType})
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, file.Filename, err)
	}

	s.logger.Debug("Image uploaded", zap.String("filename", file.Filename), zap.String("key", key))

	return UploadResult{URL: objectURL(s.baseURL, s.bucket, key), PublicID: key}, nil
}

// Remove deletes the object; S3 treats a missing key as success
func (s *MinioStore) Remove(ctx context.Context, publicID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrRemoveFailed, publicID, err)
	}
	return nil
}

// publicBaseURL prefers the configured base and falls back to the endpoint
func publicBaseURL(cfg config.MinioConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + strings.TrimRight(cfg.Endpoint, "/")
}

func objectURL(baseURL, bucket, key string) string {
	return baseURL + "/" + bucket + "/" + key
}
