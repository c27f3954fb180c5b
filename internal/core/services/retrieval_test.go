package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

const (
	libraryText = "The library is open until midnight during exam week."
	parkingText = "Parking permits can be purchased at the campus security office."
)

func seedCorpus(t *testing.T, f *fixture, tenant domain.TenantID) {
	t.Helper()
	for id, text := range map[string]string{"library": libraryText, "parking": parkingText} {
		_, err := f.ingest.Ingest(context.Background(), domain.IngestRequest{
			TenantID: tenant, DocumentID: id, Title: id, Text: text,
		})
		require.NoError(t, err)
	}
}

func TestRetrievalService_Retrieve(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t)
	seedCorpus(t, f, "3")

	hits, err := f.retrieval.Retrieve(ctx, "3", "When is the library open during exams?", 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "library", hits[0].Record.DocumentID)
	assert.Equal(t, libraryText, hits[0].Content)
	assert.GreaterOrEqual(t, hits[0].Similarity, hits[1].Similarity)
	for _, h := range hits {
		assert.GreaterOrEqual(t, h.Similarity, -1.0)
		assert.LessOrEqual(t, h.Similarity, 1.0)
	}

	top, err := f.retrieval.Retrieve(ctx, "3", "library", 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestRetrievalService_RetrieveEmpty(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t)

	hits, err := f.retrieval.Retrieve(ctx, "3", "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Zero(t, f.embedder.embeds, "blank queries are not embedded")

	hits, err = f.retrieval.Retrieve(ctx, "3", "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, hits, "empty corpus is not an error")
}

func TestRetrievalService_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t)
	seedCorpus(t, f, "1")

	hits, err := f.retrieval.Retrieve(ctx, "2", "library", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestRetrievalService_RetrieveErrors(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t)

	_, err := f.retrieval.Retrieve(ctx, "", "library", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f.embedder.fail(errEmbedDown)
	_, err = f.retrieval.Retrieve(ctx, "1", "library", 5)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, errEmbedDown)
}

func TestRetrievalService_RetrieveContextMinSimilarity(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t)
	seedCorpus(t, f, "1")

	res, err := f.retrieval.RetrieveContext(ctx, domain.RetrievalRequest{
		TenantID: "1", Query: libraryText, MinSimilarity: 0.999,
	})
	require.NoError(t, err)
	require.Len(t, res.Chunks, 1)
	assert.Equal(t, "library", res.Chunks[0].Record.DocumentID)
	assert.False(t, res.Degraded)

	sources := res.Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, "library", sources[0].Title)
	assert.Equal(t, "text", sources[0].Source)
}

func TestRetrievalService_RetrieveContextDefaultFloor(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t)
	seedCorpus(t, f, "1")
	f.retrieval.opts.MinSimilarity = 0.999

	res, err := f.retrieval.RetrieveContext(ctx, domain.RetrievalRequest{TenantID: "1", Query: parkingText})
	require.NoError(t, err)
	require.Len(t, res.Chunks, 1)
	assert.Equal(t, "parking", res.Chunks[0].Record.DocumentID)
}

func seedImages(t *testing.T, f *fixture) {
	t.Helper()
	for _, img := range []domain.Image{
		{TenantID: "1", Title: "Library Entrance", FilePath: "/img/lib.jpg", Tags: "library, campus"},
		{TenantID: "1", Title: "Campus Map", FilePath: "/img/map.png"},
		{TenantID: "1", Title: "Gym", FilePath: "/img/gym.png", Tags: "sports"},
		{TenantID: "2", Title: "Campus Library", FilePath: "/img/other.png"},
	} {
		img := img
		require.NoError(t, f.images.Save(context.Background(), &img))
	}
}

func TestRetrievalService_RetrieveContextImages(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t)
	seedCorpus(t, f, "1")
	seedImages(t, f)

	res, err := f.retrieval.RetrieveContext(ctx, domain.RetrievalRequest{
		TenantID: "1", Query: "Where is the library on the campus map?", IncludeImages: true,
	})
	require.NoError(t, err)

	var titles []string
	for _, img := range res.Images {
		titles = append(titles, img.Title)
	}
	assert.Equal(t, []string{"Library Entrance", "Campus Map"}, titles)

	res, err = f.retrieval.RetrieveContext(ctx, domain.RetrievalRequest{
		TenantID: "1", Query: "library campus", IncludeImages: false,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Images)
}

func TestRetrievalService_RetrieveContextDegrades(t *testing.T) {
	ctx := context.Background()
	f := defaultFixture(t)
	seedCorpus(t, f, "1")
	seedImages(t, f)
	f.embedder.fail(errEmbedDown)

	res, err := f.retrieval.RetrieveContext(ctx, domain.RetrievalRequest{
		TenantID: "1", Query: "library hours", IncludeImages: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Contains(t, res.Warning, "connection refused")
	assert.Empty(t, res.Chunks)
	assert.Empty(t, res.Sources())
	require.Len(t, res.Images, 1, "image lookup does not need embeddings")
	assert.Equal(t, "Library Entrance", res.Images[0].Title)
}

func TestRetrievalService_RetrieveContextInvalidTenant(t *testing.T) {
	f := defaultFixture(t)
	_, err := f.retrieval.RetrieveContext(context.Background(), domain.RetrievalRequest{
		TenantID: "a/b", Query: "library",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRetrievalService_WithoutImageStore(t *testing.T) {
	f := defaultFixture(t)
	f.retrieval.SetImageStore(nil)

	res, err := f.retrieval.RetrieveContext(context.Background(), domain.RetrievalRequest{
		TenantID: "1", Query: "library", IncludeImages: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, res.Images)
	assert.Empty(t, res.Images)
}

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"Where is the library?", []string{"Where", "library"}},
		{"map gym art", nil},
		{"(campus) café, études", []string{"campus", "café", "études"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryTerms(tt.query))
		})
	}
}
