package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHashing is the built-in feature-hashing embedder.
	// It needs no network and is always available.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderHashing:
		return "Hashing (built-in)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's known vector size.
	// Required for the hashing provider and unknown models.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ResolvedDimensions returns the explicit dimensions or the model's known size.
func (e EmbeddingSettings) ResolvedDimensions() int {
	if e.Dimensions > 0 {
		return e.Dimensions
	}
	return EmbeddingDimensions()[e.Model]
}

// ChunkingSettings configures the recursive splitter.
type ChunkingSettings struct {
	// Size is the maximum chunk length in characters.
	Size int

	// Overlap is the number of trailing characters carried into the next chunk.
	Overlap int
}

// RetrievalSettings configures query handling.
type RetrievalSettings struct {
	// TopK is the default number of chunks returned.
	TopK int

	// MinSimilarity drops weaker hits in RetrieveContext. Zero disables it.
	MinSimilarity float64

	// EmbedTimeout bounds every embedding call.
	EmbedTimeout time.Duration
}

// Settings holds all application settings.
type Settings struct {
	// DataDir is the root under which every tenant directory lives.
	DataDir string

	// Embedding is the primary embedding provider.
	Embedding EmbeddingSettings

	// Fallback is tried when the primary cannot be reached.
	// The built-in hashing provider is always tried last.
	Fallback EmbeddingSettings

	Chunking  ChunkingSettings
	Retrieval RetrievalSettings

	// BatchSize is the number of chunks embedded per request.
	BatchSize int
}

// Default setting values.
const (
	DefaultDataDir          = "./data/colleges"
	DefaultChunkSize        = 500
	DefaultChunkOverlap     = 50
	DefaultTopK             = 5
	DefaultBatchSize        = 32
	DefaultEmbedTimeout     = 30 * time.Second
	DefaultHashingDimension = 384
)

// DefaultSettings returns settings with sensible defaults.
// The primary provider is a local Ollama, with the hashing embedder as fallback.
func DefaultSettings() Settings {
	return Settings{
		DataDir: DefaultDataDir,
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		Fallback: EmbeddingSettings{
			Provider:   AIProviderHashing,
			Model:      "hashing",
			Dimensions: DefaultHashingDimension,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK:         DefaultTopK,
			EmbedTimeout: DefaultEmbedTimeout,
		},
		BatchSize: DefaultBatchSize,
	}
}

// Validate checks settings for values the engine cannot work with.
func (s Settings) Validate() error {
	if s.DataDir == "" {
		return fmt.Errorf("%w: data dir is empty", ErrInvalidInput)
	}
	if s.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, s.Chunking.Size)
	}
	if s.Chunking.Overlap < 0 || s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap %d must be in [0, %d)",
			ErrInvalidInput, s.Chunking.Overlap, s.Chunking.Size)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidInput, s.Retrieval.TopK)
	}
	if s.Retrieval.MinSimilarity < -1 || s.Retrieval.MinSimilarity > 1 {
		return fmt.Errorf("%w: min similarity %.2f outside [-1, 1]", ErrInvalidInput, s.Retrieval.MinSimilarity)
	}
	if s.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidInput, s.BatchSize)
	}
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderHashing,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "hashing",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor returns the ingestion pipeline for the chunking settings:
// split, then markdown headings, then structured-data extraction.
func PipelineConfigFor(c ChunkingSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker", "markdown", "structured"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": c.Size,
				"overlap":    c.Overlap,
			},
		},
	}
}
