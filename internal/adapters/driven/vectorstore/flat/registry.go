package flat

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.VectorStoreRegistry = (*Registry)(nil)

// Registry caches one Store per tenant under a data root.
// Each tenant's index lives in <root>/<tenant dir>/vectorstore.
type Registry struct {
	root string
	opts []Option

	mu     sync.Mutex
	stores map[domain.TenantID]*Store
	closed bool
}

// NewRegistry creates a registry rooted at root. Options apply to every store.
func NewRegistry(root string, opts ...Option) *Registry {
	return &Registry{
		root:   root,
		opts:   opts,
		stores: make(map[domain.TenantID]*Store),
	}
}

// Dir returns the index directory of a tenant.
func (r *Registry) Dir(tenant domain.TenantID) string {
	return filepath.Join(r.root, tenant.DirName(), "vectorstore")
}

// Open returns the cached store for tenant, loading it on first use.
// Concurrent callers for the same tenant always share one instance.
func (r *Registry) Open(ctx context.Context, tenant domain.TenantID) (driven.VectorStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, domain.ErrStoreClosed
	}
	if s, ok := r.stores[tenant]; ok {
		return s, nil
	}

	s, err := Open(ctx, r.Dir(tenant), tenant, r.opts...)
	if err != nil {
		return nil, err
	}
	r.stores[tenant] = s
	return s, nil
}

// Evict drops the cached store of tenant.
func (r *Registry) Evict(tenant domain.TenantID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, tenant)
}

// Tenants returns the tenants with a cached store.
func (r *Registry) Tenants() []domain.TenantID {
	r.mu.Lock()
	defer r.mu.Unlock()

	tenants := make([]domain.TenantID, 0, len(r.stores))
	for t := range r.stores {
		tenants = append(tenants, t)
	}
	return tenants
}

// Close drops every cached store. State is already durable, so nothing is flushed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stores = make(map[domain.TenantID]*Store)
	r.closed = true
	return nil
}
