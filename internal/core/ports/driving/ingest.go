package driving

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// IngestService adds documents to, and removes them from, tenant indexes.
type IngestService interface {
	// Ingest loads, chunks, embeds and indexes one document.
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)

	// DeleteDocument removes every slot of a document. Missing documents are a no-op.
	DeleteDocument(ctx context.Context, tenant domain.TenantID, documentID string) (int, error)

	// ClearTenant drops the tenant's whole index.
	ClearTenant(ctx context.Context, tenant domain.TenantID) error

	// Stats describes the tenant's index.
	Stats(ctx context.Context, tenant domain.TenantID) (domain.IndexStats, error)
}
