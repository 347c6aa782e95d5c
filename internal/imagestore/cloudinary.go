package imagestore

import (
	"bytes"
	"context"
	"fmt"

	"shop-admin/internal/config"
	"shop-admin/internal/domain"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// cloudinaryAPI is the part of the Cloudinary upload API the store uses
type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore keeps images at Cloudinary
type CloudinaryStore struct {
	api    cloudinaryAPI
	folder string
	logger *zap.Logger
}

// NewCloudinaryStore creates a store from the account credentials
func NewCloudinaryStore(cfg config.CloudinaryConfig, folder string, logger *zap.Logger) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary client: %w", err)
	}

	return newCloudinaryStore(&cld.Upload, folder, logger), nil
}

func newCloudinaryStore(api cloudinaryAPI, folder string, logger *zap.Logger) *CloudinaryStore {
	return &CloudinaryStore{
		api:    api,
		folder: folder,
		logger: logger.Named("cloudinary"),
	}
}

// Upload stores the image in the configured folder and returns its secure URL
func (s *CloudinaryStore) Upload(ctx context.Context, file ImageFile) (UploadResult, error) {
	resp, err := s.api.Upload(ctx, bytes.NewReader(file.Content), uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %s: %v", domain.ErrUploadFailed, file.Filename, err)
	}
	if resp.Error.Message != "" {
		return UploadResult{}, fmt.Errorf("%w: %s: %s", domain.ErrUploadFailed, file.Filename, resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return UploadResult{}, fmt.Errorf("%w: %s: empty url in response", domain.ErrUploadFailed, file.Filename)
	}

	s.logger.Debug("Image uploaded",
		zap.String("filename", file.Filename),
		zap.String("public_id", resp.PublicID),
	)

	return UploadResult{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

// Remove destroys the asset. An asset that is already gone counts as removed.
func (s *CloudinaryStore) Remove(ctx context.Context, publicID string) error {
	resp, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrRemoveFailed, publicID, err)
	}

	switch {
	case resp.Error.Message != "":
		return fmt.Errorf("%w: %s: %s", domain.ErrRemoveFailed, publicID, resp.Error.Message)
	case resp.Result == "ok", resp.Result == "not found":
		return nil
	default:
		return fmt.Errorf("%w: %s: unexpected result %q", domain.ErrRemoveFailed, publicID, resp.Result)
	}
}
