package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
	"github.com/custodia-labs/campusrag/internal/core/ports/driving"
	"github.com/custodia-labs/campusrag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// minImageTermLength is the rune count a query term must exceed to be
// used for image lookup. Shorter terms match too much.
const minImageTermLength = 3

// RetrievalOptions holds the retrieval defaults.
type RetrievalOptions struct {
	TopK          int
	MinSimilarity float64
	EmbedTimeout  time.Duration
}

// RetrievalService embeds queries and searches tenant indexes.
type RetrievalService struct {
	stores   driven.VectorStoreRegistry
	embedder driven.EmbeddingService
	images   driven.ImageStore
	opts     RetrievalOptions
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	stores driven.VectorStoreRegistry,
	embedder driven.EmbeddingService,
	opts RetrievalOptions,
) *RetrievalService {
	if opts.TopK <= 0 {
		opts.TopK = domain.DefaultTopK
	}
	if opts.EmbedTimeout <= 0 {
		opts.EmbedTimeout = domain.DefaultEmbedTimeout
	}
	return &RetrievalService{
		stores:   stores,
		embedder: embedder,
		opts:     opts,
	}
}

// SetImageStore sets the optional image store used by RetrieveContext.
func (s *RetrievalService) SetImageStore(store driven.ImageStore) {
	s.images = store
}

// Retrieve returns up to topK chunks in descending similarity.
// Embedding failures wrap domain.ErrEmbeddingUnavailable.
func (s *RetrievalService) Retrieve(
	ctx context.Context, tenant domain.TenantID, query string, topK int,
) ([]domain.RetrievedChunk, error) {
	logger.Section("Retrieval")

	tenant, err := domain.NewTenantID(string(tenant))
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("empty query, returning no results")
		return []domain.RetrievedChunk{}, nil
	}
	if topK <= 0 {
		topK = s.opts.TopK
	}
	logger.Debug("tenant=%s top_k=%d query=%q", tenant, topK, query)

	embedCtx, cancel := context.WithTimeout(ctx, s.opts.EmbedTimeout)
	vector, err := s.embedder.Embed(embedCtx, query)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrEmbeddingUnavailable, err)
	}

	store, err := s.stores.Open(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("open index for %s: %w", tenant, err)
	}
	hits, err := store.Search(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", tenant, err)
	}
	logger.Debug("%d hits", len(hits))
	return hits, nil
}

// RetrieveContext returns chunks above the similarity floor plus the
// images whose text matches the query. An unreachable embedding service
// yields an empty, degraded result instead of an error.
func (s *RetrievalService) RetrieveContext(
	ctx context.Context, req domain.RetrievalRequest,
) (*domain.RetrievalResult, error) {
	result := &domain.RetrievalResult{
		Chunks: []domain.RetrievedChunk{},
		Images: []domain.Image{},
	}

	hits, err := s.Retrieve(ctx, req.TenantID, req.Query, req.TopK)
	switch {
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		logger.Warn("retrieval degraded: %v", err)
		result.Degraded = true
		result.Warning = err.Error()
	case err != nil:
		return nil, err
	}

	floor := req.MinSimilarity
	if floor == 0 {
		floor = s.opts.MinSimilarity
	}
	for _, h := range hits {
		if floor != 0 && h.Similarity < floor {
			continue
		}
		result.Chunks = append(result.Chunks, h)
	}

	if req.IncludeImages && s.images != nil {
		images, err := s.relevantImages(ctx, req.TenantID, req.Query)
		if err != nil {
			logger.Warn("image lookup failed: %v", err)
		} else {
			result.Images = images
		}
	}
	return result, nil
}

// relevantImages looks up each query term longer than minImageTermLength
// runes and returns the matches de-duplicated by ID in first-seen order.
func (s *RetrievalService) relevantImages(
	ctx context.Context, tenant domain.TenantID, query string,
) ([]domain.Image, error) {
	images := []domain.Image{}
	seen := make(map[string]bool)
	for _, term := range QueryTerms(query) {
		matches, err := s.images.SearchByText(ctx, tenant, term)
		if err != nil {
			return nil, fmt.Errorf("search images for %q: %w", term, err)
		}
		for _, img := range matches {
			if seen[img.ID] {
				continue
			}
			seen[img.ID] = true
			images = append(images, img)
		}
	}
	return images, nil
}

// QueryTerms splits a query into the terms used for image lookup:
// whitespace-separated words stripped of surrounding punctuation, keeping
// only those longer than three runes.
func QueryTerms(query string) []string {
	var terms []string
	for _, word := range strings.Fields(query) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if utf8.RuneCountInString(word) > minImageTermLength {
			terms = append(terms, word)
		}
	}
	return terms
}
