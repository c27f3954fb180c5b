package flat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
	"github.com/custodia-labs/campusrag/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used to stamp new slot records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is the vector index of one tenant.
//
// Mutations hold the write lock for their whole build-persist-swap cycle,
// and the in-memory snapshot is replaced only after the new generation is
// durable. Searches hold the read lock and always see a committed snapshot.
type Store struct {
	tenant domain.TenantID
	dir    string
	now    func() time.Time

	mu   sync.RWMutex
	snap *snapshot
	gen  uint64
}

// Open loads the tenant index persisted under dir.
// Absent state yields an empty index. Corrupt state is reported to the
// operator and also yields an empty index; the next mutation replaces it.
func Open(ctx context.Context, dir string, tenant domain.TenantID, opts ...Option) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &Store{
		tenant: tenant,
		dir:    dir,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, gen, err := loadGeneration(dir)
	switch {
	case errors.Is(err, domain.ErrCorruptPersistedState):
		logger.Error("tenant %s: %v; starting with an empty index", tenant, err)
		snap = emptySnapshot()
	case err != nil:
		return nil, fmt.Errorf("load index for tenant %s: %w", tenant, err)
	}
	s.snap, s.gen = snap, gen

	logger.Debug("opened index for tenant %s: %d slots, dimension %d", tenant, snap.len(), snap.dim)
	return s, nil
}

// Add appends one slot per chunk. See driven.VectorStore.
func (s *Store) Add(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", domain.ErrInvalidInput, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.snap.appended(chunks, vectors, s.now())
	if err != nil {
		return err
	}
	return s.commit(next)
}

// Search returns the k nearest slots to query. See driven.VectorStore.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap.search(query, k)
}

// DeleteByDocument rebuilds the index without the document's slots.
// A document with no slots is a no-op.
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, removed := s.snap.without(documentID)
	if removed == 0 {
		return 0, nil
	}
	if err := s.commit(next); err != nil {
		return 0, err
	}
	logger.Debug("tenant %s: removed %d slots of document %s, %d remain", s.tenant, removed, documentID, next.len())
	return removed, nil
}

// Clear removes every generation from disk and empties the index.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("clear index for tenant %s: %w", s.tenant, err)
	}
	s.snap, s.gen = emptySnapshot(), 0
	return nil
}

// Stats describes the current index.
func (s *Store) Stats() domain.IndexStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.IndexStats{
		TenantID:  s.tenant,
		Slots:     s.snap.len(),
		Dimension: s.snap.dim,
		Documents: s.snap.distinctDocuments(),
	}
}

// Dir returns the directory holding the tenant's generations.
func (s *Store) Dir() string {
	return s.dir
}

// commit persists next as a new generation and then makes it live.
// Caller must hold the write lock.
func (s *Store) commit(next *snapshot) error {
	gen := s.gen + 1
	if err := writeGeneration(s.dir, gen, next); err != nil {
		return fmt.Errorf("persist index for tenant %s: %w", s.tenant, err)
	}
	s.snap, s.gen = next, gen
	return nil
}
