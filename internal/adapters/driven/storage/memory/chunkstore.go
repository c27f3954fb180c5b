package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu sync.RWMutex
	// tenant -> document -> chunk ID -> chunk
	chunks map[domain.TenantID]map[string]map[string]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[domain.TenantID]map[string]map[string]domain.Chunk),
	}
}

// SaveChunks upserts chunks by ID.
func (s *ChunkStore) SaveChunks(_ context.Context, tenant domain.TenantID, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.chunks[tenant]
	if !ok {
		docs = make(map[string]map[string]domain.Chunk)
		s.chunks[tenant] = docs
	}
	for _, c := range chunks {
		byID, ok := docs[c.DocumentID]
		if !ok {
			byID = make(map[string]domain.Chunk)
			docs[c.DocumentID] = byID
		}
		c.Metadata = domain.CopyMetadata(c.Metadata)
		byID[c.ID] = c
	}
	return nil
}

// GetChunks returns a document's chunks ordered by position.
func (s *ChunkStore) GetChunks(_ context.Context, tenant domain.TenantID, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.chunks[tenant][documentID]
	out := make([]domain.Chunk, 0, len(byID))
	for _, c := range byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// DeleteDocument removes all chunks of a document.
func (s *ChunkStore) DeleteDocument(_ context.Context, tenant domain.TenantID, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks[tenant], documentID)
	return nil
}

// DeleteTenant removes all chunks of a tenant.
func (s *ChunkStore) DeleteTenant(_ context.Context, tenant domain.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, tenant)
	return nil
}

// ListDocuments returns the tenant's document IDs, sorted.
func (s *ChunkStore) ListDocuments(_ context.Context, tenant domain.TenantID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.chunks[tenant]))
	for id, byID := range s.chunks[tenant] {
		if len(byID) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
