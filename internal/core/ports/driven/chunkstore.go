package driven

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// ChunkStore is a relational ledger of ingested chunks.
// It mirrors the vector index for listing and auditing; search never reads it.
type ChunkStore interface {
	// SaveChunks records the chunks of a document for a tenant.
	SaveChunks(ctx context.Context, tenant domain.TenantID, chunks []domain.Chunk) error

	// GetChunks returns the chunks of a document ordered by position.
	GetChunks(ctx context.Context, tenant domain.TenantID, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes all chunks of a document. Missing documents are not an error.
	DeleteDocument(ctx context.Context, tenant domain.TenantID, documentID string) error

	// DeleteTenant removes all chunks of a tenant.
	DeleteTenant(ctx context.Context, tenant domain.TenantID) error

	// ListDocuments returns the distinct document IDs of a tenant.
	ListDocuments(ctx context.Context, tenant domain.TenantID) ([]string, error)
}
