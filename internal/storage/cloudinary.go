package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/config"
)

// Uploader stores files with an external object store and returns a
// public URL for each upload.
type Uploader interface {
	Upload(ctx context.Context, content io.Reader, filename, folder string) (string, error)
}

// CloudinaryUploader stores files in Cloudinary.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	logger *zap.Logger
}

// NewCloudinaryUploader constructs the uploader from credentials.
func NewCloudinaryUploader(cfg config.StorageConfig, logger *zap.Logger) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{client: client, logger: logger}, nil
}

// Upload pushes the file content and returns its secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, content io.Reader, filename, folder string) (string, error) {
	resp, err := u.client.Upload.Upload(ctx, content, uploader.UploadParams{
		Folder:           folder,
		FilenameOverride: filename,
		UseFilename:      api.Bool(true),
		UniqueFilename:   api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}

	u.logger.Info("file uploaded",
		zap.String("filename", filename),
		zap.String("folder", folder),
		zap.String("url", resp.SecureURL),
	)
	return resp.SecureURL, nil
}
