// Package imagestore uploads and removes images at a remote host.
package imagestore

import (
	"context"
	"fmt"
	"path"
	"strings"

	"shop-admin/internal/config"

	"go.uber.org/zap"
)

// ImageFile is an image received from a client
type ImageFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadResult identifies a stored image. PublicID is what Remove expects.
type UploadResult struct {
	URL      string
	PublicID string
}

// Store is the remote image host.
// Upload failures wrap domain.ErrUploadFailed and Remove failures wrap domain.ErrRemoveFailed.
type Store interface {
	Upload(ctx context.Context, file ImageFile) (UploadResult, error)
	Remove(ctx context.Context, publicID string) error
}

// New builds the store selected by cfg.Provider
func New(cfg config.ImageStoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Provider {
	case "", "cloudinary":
		return NewCloudinaryStore(cfg.Cloudinary, cfg.Folder, logger)
	case "minio":
		return NewMinioStore(cfg.Minio, cfg.Folder, logger)
	default:
		return nil, fmt.Errorf("unknown image store provider %q", cfg.Provider)
	}
}

// objectKey places a generated name under folder, keeping the original extension
func objectKey(folder, name, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(strings.Trim(folder, "/"), name+ext)
}
