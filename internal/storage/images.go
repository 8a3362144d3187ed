// Package storage uploads listing photos to Cloudinary and returns their
// public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/iliyamo/aloft-stays/internal/config"
)

// ErrUnsupportedImage is returned for files that are not a known image type.
var ErrUnsupportedImage = errors.New("unsupported image type")

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// ImageStore uploads images into a single Cloudinary folder.
type ImageStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewImageStore connects using the CLOUDINARY_URL style credentials in cfg.
func NewImageStore(cfg config.StorageConfig) (*ImageStore, error) {
	if cfg.CloudinaryURL == "" {
		return nil, errors.New("CLOUDINARY_URL is not set")
	}
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &ImageStore{cld: cld, folder: cfg.Folder}, nil
}

// ObjectName returns a random public id for an upload, keeping nothing of
// the client supplied name except a validated extension.
func ObjectName(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return "", ErrUnsupportedImage
	}
	return uuid.NewString(), nil
}

// Upload stores r under a random name and returns its https URL.
func (s *ImageStore) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	name, err := ObjectName(filename)
	if err != nil {
		return "", err
	}
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: name,
		Folder:   s.folder,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload image: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}
