package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/campusrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/campusrag/internal/adapters/driven/vectorstore/flat"
	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/normalisers"
	"github.com/custodia-labs/campusrag/internal/postprocessors"
)

var errEmbedDown = errors.New("connection refused")

// fakeEmbedder wraps the hashing embedder with failure injection and call counting.
type fakeEmbedder struct {
	*hashing.EmbeddingService

	mu      sync.Mutex
	err     error
	short   bool
	batches int
	embeds  int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{EmbeddingService: hashing.NewEmbeddingService(hashing.Config{Dimensions: 64})}
}

func (f *fakeEmbedder) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.embeds++
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.EmbeddingService.Embed(ctx, text)
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.batches++
	err, short := f.err, f.short
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	vectors, err := f.EmbeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if short {
		return vectors[:len(vectors)-1], nil
	}
	return vectors, nil
}

// fixture wires the services over real adapters in a temp dir.
type fixture struct {
	stores    *flat.Registry
	embedder  *fakeEmbedder
	chunks    *memory.ChunkStore
	images    *memory.ImageStore
	ingest    *IngestService
	retrieval *RetrievalService
}

func newFixture(t *testing.T, chunking domain.ChunkingSettings, batchSize int) *fixture {
	t.Helper()

	procs := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(procs)
	pipeline, err := procs.BuildPipeline(domain.PipelineConfigFor(chunking))
	require.NoError(t, err)

	f := &fixture{
		stores:   flat.NewRegistry(t.TempDir()),
		embedder: newFakeEmbedder(),
		chunks:   memory.NewChunkStore(),
		images:   memory.NewImageStore(),
	}
	t.Cleanup(func() { _ = f.stores.Close() })

	f.ingest = NewIngestService(f.stores, normalisers.NewRegistry(), pipeline, f.embedder,
		IngestOptions{BatchSize: batchSize})
	f.ingest.SetChunkStore(f.chunks)

	f.retrieval = NewRetrievalService(f.stores, f.embedder, RetrievalOptions{TopK: 5})
	f.retrieval.SetImageStore(f.images)
	return f
}

func defaultFixture(t *testing.T) *fixture {
	return newFixture(t, domain.ChunkingSettings{Size: 200, Overlap: 20}, 4)
}
