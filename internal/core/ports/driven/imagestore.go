package driven

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// ImageStore persists tenant images and finds them by text.
type ImageStore interface {
	// Save stores or replaces an image. An empty ID is assigned by the store.
	Save(ctx context.Context, img *domain.Image) error

	// Get returns an image by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, tenant domain.TenantID, id string) (*domain.Image, error)

	// List returns a tenant's images, filtered by tag when tag is not empty.
	List(ctx context.Context, tenant domain.TenantID, tag string) ([]domain.Image, error)

	// SearchByText returns images whose title, description or tags contain
	// term, ignoring case.
	SearchByText(ctx context.Context, tenant domain.TenantID, term string) ([]domain.Image, error)

	// Delete removes an image. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, tenant domain.TenantID, id string) error
}
