package flat

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

func TestRegistry_Dir(t *testing.T) {
	r := NewRegistry("/data")
	assert.Equal(t, filepath.Join("/data", "college_007", "vectorstore"), r.Dir("7"))
	assert.Equal(t, filepath.Join("/data", "college_north", "vectorstore"), r.Dir("north"))
}

func TestRegistry_OpenCachesPerTenant(t *testing.T) {
	r := NewRegistry(t.TempDir())
	ctx := context.Background()

	a1, err := r.Open(ctx, "1")
	require.NoError(t, err)
	a2, err := r.Open(ctx, "1")
	require.NoError(t, err)
	b, err := r.Open(ctx, "2")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.ElementsMatch(t, []domain.TenantID{"1", "2"}, r.Tenants())
}

func TestRegistry_TenantsAreIsolated(t *testing.T) {
	r := NewRegistry(t.TempDir())
	ctx := context.Background()

	a, err := r.Open(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, a.Add(ctx, chunksFor("A", 1), [][]float32{{1, 0}}))

	b, err := r.Open(ctx, "2")
	require.NoError(t, err)
	hits, err := b.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRegistry_EvictReloadsFromDisk(t *testing.T) {
	r := NewRegistry(t.TempDir())
	ctx := context.Background()

	s, err := r.Open(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, chunksFor("A", 2), [][]float32{{1, 0}, {0, 1}}))

	r.Evict("1")
	reloaded, err := r.Open(ctx, "1")
	require.NoError(t, err)

	assert.NotSame(t, s, reloaded)
	assert.Equal(t, 2, reloaded.Stats().Slots)
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry(t.TempDir())

	_, err := r.Open(context.Background(), "1")
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Open(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
	assert.Empty(t, r.Tenants())
}
