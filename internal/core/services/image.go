package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
	"github.com/custodia-labs/campusrag/internal/core/ports/driving"
)

// Ensure ImageService implements the interface.
var _ driving.ImageService = (*ImageService)(nil)

// ImageService manages tenant images.
type ImageService struct {
	store driven.ImageStore
}

// NewImageService creates a new image service.
func NewImageService(store driven.ImageStore) *ImageService {
	return &ImageService{store: store}
}

// Add registers an image. The title defaults to one derived from the file
// name and the tag list is normalised to "a, b, c".
func (s *ImageService) Add(ctx context.Context, img domain.Image) (*domain.Image, error) {
	tenant, err := domain.NewTenantID(string(img.TenantID))
	if err != nil {
		return nil, err
	}
	img.TenantID = tenant

	img.FilePath = strings.TrimSpace(img.FilePath)
	if img.FilePath == "" {
		return nil, fmt.Errorf("%w: image path is empty", domain.ErrInvalidInput)
	}
	if !domain.IsSupportedImage(img.FilePath) {
		return nil, fmt.Errorf("%w: unsupported image type %q (want one of %s)",
			domain.ErrInvalidInput, img.FilePath, strings.Join(domain.SupportedImageExtensions(), ", "))
	}

	img.Title = strings.TrimSpace(img.Title)
	if img.Title == "" {
		img.Title = domain.TitleFromPath(img.FilePath)
	}
	img.Description = strings.TrimSpace(img.Description)
	img.Tags = strings.Join(img.TagList(), ", ")

	if err := s.store.Save(ctx, &img); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	return &img, nil
}

// List returns a tenant's images, filtered by tag when set.
func (s *ImageService) List(ctx context.Context, tenant domain.TenantID, tag string) ([]domain.Image, error) {
	tenant, err := domain.NewTenantID(string(tenant))
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, tenant, strings.TrimSpace(tag))
}

// Delete removes an image. Returns domain.ErrNotFound if absent.
func (s *ImageService) Delete(ctx context.Context, tenant domain.TenantID, id string) error {
	tenant, err := domain.NewTenantID(string(tenant))
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, tenant, id)
}
