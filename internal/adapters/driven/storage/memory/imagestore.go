package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// Ensure ImageStore implements the interface.
var _ driven.ImageStore = (*ImageStore)(nil)

// ImageStore is an in-memory implementation of driven.ImageStore.
// Images are kept in insertion order per tenant.
type ImageStore struct {
	mu     sync.RWMutex
	images map[domain.TenantID][]domain.Image
}

// NewImageStore creates a new in-memory image store.
func NewImageStore() *ImageStore {
	return &ImageStore{
		images: make(map[domain.TenantID][]domain.Image),
	}
}

// Save stores or replaces an image.
func (s *ImageStore) Save(_ context.Context, img *domain.Image) error {
	if img == nil || img.TenantID == "" || img.Title == "" {
		return fmt.Errorf("%w: image needs a tenant and a title", domain.ErrInvalidInput)
	}
	if img.ID == "" {
		img.ID = uuid.New().String()
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.images[img.TenantID]
	for i := range list {
		if list[i].ID == img.ID {
			img.CreatedAt = list[i].CreatedAt
			list[i] = *img
			return nil
		}
	}
	s.images[img.TenantID] = append(list, *img)
	return nil
}

// Get returns an image by ID.
func (s *ImageStore) Get(_ context.Context, tenant domain.TenantID, id string) (*domain.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, img := range s.images[tenant] {
		if img.ID == id {
			return &img, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns a tenant's images, filtered by tag when set.
func (s *ImageStore) List(_ context.Context, tenant domain.TenantID, tag string) ([]domain.Image, error) {
	return s.filter(tenant, func(img domain.Image) bool {
		return tag == "" || img.HasTag(tag)
	}), nil
}

// SearchByText returns images matching term in title, description or tags.
func (s *ImageStore) SearchByText(_ context.Context, tenant domain.TenantID, term string) ([]domain.Image, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Image{}, nil
	}
	return s.filter(tenant, func(img domain.Image) bool {
		return img.Matches(term)
	}), nil
}

// Delete removes an image.
func (s *ImageStore) Delete(_ context.Context, tenant domain.TenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.images[tenant]
	for i := range list {
		if list[i].ID == id {
			s.images[tenant] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *ImageStore) filter(tenant domain.TenantID, keep func(domain.Image) bool) []domain.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Image{}
	for _, img := range s.images[tenant] {
		if keep(img) {
			out = append(out, img)
		}
	}
	return out
}
