package driven

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// VectorStore is the exact similarity index of a single tenant.
// Slots are assigned in insertion order and never reused; the vector, record
// and chunk text of a slot are always stored together.
type VectorStore interface {
	// Add appends one slot per chunk. len(chunks) must equal len(vectors).
	// Vectors are normalised before storage. The first insertion fixes the
	// index dimensionality. The new state is durable before Add returns.
	Add(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error

	// Search returns at most k hits ordered by ascending distance,
	// ties broken by ascending slot. An empty index returns no hits.
	Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error)

	// DeleteByDocument removes every slot of the document by rebuilding the
	// index from the survivors. Returns the number of removed slots.
	DeleteByDocument(ctx context.Context, documentID string) (int, error)

	// Clear drops all in-memory and persisted state.
	Clear(ctx context.Context) error

	// Stats describes the current index.
	Stats() domain.IndexStats
}

// VectorStoreRegistry owns one VectorStore per tenant.
type VectorStoreRegistry interface {
	// Open returns the tenant's store, loading it from disk on first use.
	// A tenant with no persisted state gets an empty store.
	Open(ctx context.Context, tenant domain.TenantID) (VectorStore, error)

	// Evict drops the cached store of a tenant. The next Open reloads it.
	Evict(tenant domain.TenantID)

	// Close releases every cached store.
	Close() error
}
