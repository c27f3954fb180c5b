package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

func TestServer_handleRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunks, images and sources", func(t *testing.T) {
		mock := &mockRetrievalService{
			result: &domain.RetrievalResult{
				Chunks: []domain.RetrievedChunk{{
					Content: "The library opens at 8am.",
					Record: domain.ChunkRecord{
						DocumentID: "hours",
						ChunkIndex: 2,
						Source:     "/docs/hours.md",
						Title:      "Library Hours",
						Extra:      map[string]any{"sections": []string{"Weekdays"}},
					},
					Similarity: 0.91,
				}},
				Images: []domain.Image{{ID: "img-1", Title: "Library", FilePath: "/img/lib.png", Tags: "campus, library"}},
			},
		}
		server, err := NewServer(&Ports{Retrieval: mock})
		require.NoError(t, err)

		input := RetrieveInput{TenantID: "7", Query: "library", TopK: 3, MinSimilarity: 0.2, IncludeImages: true}
		_, output, err := server.handleRetrieve(ctx, nil, input)
		require.NoError(t, err)

		assert.Equal(t, domain.RetrievalRequest{
			TenantID: "7", Query: "library", TopK: 3, MinSimilarity: 0.2, IncludeImages: true,
		}, mock.got)

		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Chunks, 1)
		assert.Equal(t, ChunkOutput{
			Content:    "The library opens at 8am.",
			DocumentID: "hours",
			ChunkIndex: 2,
			Title:      "Library Hours",
			Source:     "/docs/hours.md",
			Similarity: 0.91,
			Metadata:   map[string]any{"sections": []string{"Weekdays"}},
		}, output.Chunks[0])
		require.Len(t, output.Images, 1)
		assert.Equal(t, []string{"campus", "library"}, output.Images[0].Tags)
		assert.Equal(t, []domain.SourceRef{{Title: "Library Hours", Source: "/docs/hours.md", Similarity: 0.91}},
			output.Sources)
		assert.False(t, output.Degraded)
	})

	t.Run("passes degradation through", func(t *testing.T) {
		mock := &mockRetrievalService{
			result: &domain.RetrievalResult{Degraded: true, Warning: "embedding service unavailable"},
		}
		server, err := NewServer(&Ports{Retrieval: mock})
		require.NoError(t, err)

		_, output, err := server.handleRetrieve(ctx, nil, RetrieveInput{TenantID: "1", Query: "x"})
		require.NoError(t, err)
		assert.True(t, output.Degraded)
		assert.Equal(t, "embedding service unavailable", output.Warning)
		assert.Empty(t, output.Chunks)
		assert.NotNil(t, output.Chunks)
	})

	t.Run("returns error on retrieval failure", func(t *testing.T) {
		mock := &mockRetrievalService{err: errors.New("invalid input: tenant id")}
		server, err := NewServer(&Ports{Retrieval: mock})
		require.NoError(t, err)

		_, _, err = server.handleRetrieve(ctx, nil, RetrieveInput{Query: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tenant id")
	})
}
