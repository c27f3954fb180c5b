package driving

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// RetrievalService answers queries against a tenant's index.
type RetrievalService interface {
	// Retrieve returns up to topK chunks in descending similarity.
	// A non-positive topK uses the configured default.
	Retrieve(ctx context.Context, tenant domain.TenantID, query string, topK int) ([]domain.RetrievedChunk, error)

	// RetrieveContext returns chunks plus related images. It degrades to an
	// empty, flagged result when the embedding service fails.
	RetrieveContext(ctx context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error)
}
