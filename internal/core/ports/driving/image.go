package driving

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// ImageService manages the images attached to a tenant.
type ImageService interface {
	// Add registers an image file with its descriptive text.
	Add(ctx context.Context, img domain.Image) (*domain.Image, error)

	// List returns a tenant's images, filtered by tag when tag is not empty.
	List(ctx context.Context, tenant domain.TenantID, tag string) ([]domain.Image, error)

	// Delete removes an image.
	Delete(ctx context.Context, tenant domain.TenantID, id string) error
}
