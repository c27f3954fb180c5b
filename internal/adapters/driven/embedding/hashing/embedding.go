// Package hashing provides a local embedding service based on feature
// hashing. It needs no model or network and is the last-resort fallback
// when no embedding API can be reached.
package hashing

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// ModelName is reported for every vector this service produces.
const ModelName = "hashing-xxh64"

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// Config holds configuration for the hashing embedding service.
type Config struct {
	// Dimensions is the vector size (default: 384).
	Dimensions int
}

// EmbeddingService maps unigrams and bigrams onto a fixed number of
// signed buckets. Texts sharing vocabulary land close together.
type EmbeddingService struct {
	dimensions int
	stopwords  map[string]struct{}
}

// NewEmbeddingService creates a hashing embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = domain.DefaultHashingDimension
	}
	return &EmbeddingService{
		dimensions: cfg.Dimensions,
		stopwords:  stopwords(),
	}
}

// Embed returns the L2-normalised feature vector of text. The result is
// never the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := make([]float64, s.dimensions)
	tokens := s.tokenize(text)
	for i, tok := range tokens {
		s.add(acc, tok, 1)
		if i > 0 {
			s.add(acc, tokens[i-1]+" "+tok, 0.5)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	vec := make([]float32, s.dimensions)
	if norm == 0 {
		// No usable tokens: fall back to one bucket keyed by the raw text.
		vec[xxhash.Sum64String(text)%uint64(s.dimensions)] = 1
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds unless ctx is done.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// add hashes feature into a bucket; the top bit picks the sign so that
// collisions tend to cancel rather than accumulate.
func (s *EmbeddingService) add(acc []float64, feature string, weight float64) {
	h := xxhash.Sum64String(feature)
	idx := h % uint64(len(acc))
	if h>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}

func (s *EmbeddingService) tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := s.stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func stopwords() map[string]struct{} {
	words := []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
		"has", "in", "is", "it", "its", "of", "on", "or", "that", "the",
		"this", "to", "was", "were", "will", "with",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
