package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
	"github.com/custodia-labs/campusrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir        = "data_dir"
	keyEmbedPrefix    = "embedding"
	keyFallbackPrefix = "fallback"
	keyChunkSize      = "chunking.size"
	keyChunkOverlap   = "chunking.overlap"
	keyTopK           = "retrieval.top_k"
	keyMinSimilarity  = "retrieval.min_similarity"
	keyEmbedTimeout   = "retrieval.embed_timeout"
	keyBatchSize      = "ingest.batch_size"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvDataDir           = "CAMPUSRAG_DATA_DIR"
	EnvEmbeddingProvider = "CAMPUSRAG_EMBEDDING_PROVIDER"
	EnvOllamaBaseURL     = "OLLAMA_BASE_URL"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// The aiValidator is optional.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// LoadSettings reads and validates the settings held by configStore,
// with environment overrides applied.
func LoadSettings(configStore driven.ConfigStore) (domain.Settings, error) {
	settings, err := NewSettingsService(configStore, nil).Get()
	if err != nil {
		return domain.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("settings in %s: %w", configStore.Path(), err)
	}
	return *settings, nil
}

// Get retrieves current application settings.
// Missing or invalid values fall back to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		DataDir:   s.getString(keyDataDir, defaults.DataDir),
		Embedding: s.getEmbedding(keyEmbedPrefix, defaults.Embedding),
		Fallback:  s.getEmbedding(keyFallbackPrefix, defaults.Fallback),
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:          s.getInt(keyTopK, defaults.Retrieval.TopK),
			MinSimilarity: s.configStore.GetFloat(keyMinSimilarity),
			EmbedTimeout:  s.getDuration(keyEmbedTimeout, defaults.Retrieval.EmbedTimeout),
		},
		BatchSize: s.getInt(keyBatchSize, defaults.BatchSize),
	}
	// An explicit zero overlap is meaningful.
	if _, ok := s.configStore.Get(keyChunkOverlap); ok {
		settings.Chunking.Overlap = s.configStore.GetInt(keyChunkOverlap)
	}

	s.applyEnv(settings)
	return settings, nil
}

// applyEnv overlays the environment on settings.
func (s *SettingsService) applyEnv(settings *domain.Settings) {
	if v := s.getenv(EnvDataDir); v != "" {
		settings.DataDir = v
	}
	if v := domain.AIProvider(s.getenv(EnvEmbeddingProvider)); v.IsValid() && v != settings.Embedding.Provider {
		settings.Embedding = domain.EmbeddingSettings{
			Provider: v,
			Model:    domain.DefaultEmbeddingModels()[v],
		}
		if v == domain.AIProviderHashing {
			settings.Embedding.Dimensions = domain.DefaultHashingDimension
		}
	}
	for _, e := range []*domain.EmbeddingSettings{&settings.Embedding, &settings.Fallback} {
		switch e.Provider {
		case domain.AIProviderOllama:
			if v := s.getenv(EnvOllamaBaseURL); v != "" {
				e.BaseURL = v
			} else if e.BaseURL == "" {
				e.BaseURL = defaultOllamaURL
			}
		case domain.AIProviderOpenAI:
			if v := s.getenv(EnvOpenAIAPIKey); v != "" {
				e.APIKey = v
			}
		}
	}
}

const defaultOllamaURL = "http://localhost:11434"

// Save persists application settings.
// API keys are only written when set, so env-supplied keys are not copied to disk.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	values := []struct {
		key string
		val any
	}{
		{keyDataDir, settings.DataDir},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyTopK, settings.Retrieval.TopK},
		{keyMinSimilarity, settings.Retrieval.MinSimilarity},
		{keyEmbedTimeout, settings.Retrieval.EmbedTimeout.String()},
		{keyBatchSize, settings.BatchSize},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.val); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	if err := s.saveEmbedding(keyEmbedPrefix, settings.Embedding); err != nil {
		return err
	}
	return s.saveEmbedding(keyFallbackPrefix, settings.Fallback)
}

func (s *SettingsService) saveEmbedding(prefix string, e domain.EmbeddingSettings) error {
	values := []struct {
		key string
		val any
	}{
		{prefix + ".provider", e.Provider.String()},
		{prefix + ".model", e.Model},
		{prefix + ".base_url", e.BaseURL},
		{prefix + ".dimensions", e.Dimensions},
	}
	if e.APIKey != "" && e.APIKey != s.getenv(EnvOpenAIAPIKey) {
		values = append(values, struct {
			key string
			val any
		}{prefix + ".api_key", e.APIKey})
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.val); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetEmbeddingProvider configures the primary embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.getenv(EnvOpenAIAPIKey) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	embedding := domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	if embedding.Model == "" {
		embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	switch provider {
	case domain.AIProviderOllama:
		embedding.BaseURL = settings.Embedding.BaseURL
		if embedding.BaseURL == "" || settings.Embedding.Provider != domain.AIProviderOllama {
			embedding.BaseURL = defaultOllamaURL
		}
	case domain.AIProviderHashing:
		embedding.Dimensions = domain.DefaultHashingDimension
	}
	settings.Embedding = embedding

	return s.Save(settings)
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %s is not fully configured",
			domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// GetPipelineConfig returns the post-processor pipeline for the current
// chunking settings.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.PipelineConfigFor(domain.DefaultSettings().Chunking)
	}
	return domain.PipelineConfigFor(settings.Chunking)
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := strings.TrimSpace(s.configStore.GetString(key))
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// getEmbedding reads one provider block. A block naming a different
// provider than the default does not inherit the default's model or URL.
func (s *SettingsService) getEmbedding(prefix string, defaults domain.EmbeddingSettings) domain.EmbeddingSettings {
	provider := s.getProvider(prefix+".provider", defaults.Provider)
	if provider != defaults.Provider {
		defaults = domain.EmbeddingSettings{
			Provider: provider,
			Model:    domain.DefaultEmbeddingModels()[provider],
		}
		if provider == domain.AIProviderHashing {
			defaults.Dimensions = domain.DefaultHashingDimension
		}
	}
	return domain.EmbeddingSettings{
		Provider:   provider,
		Model:      s.getString(prefix+".model", defaults.Model),
		BaseURL:    s.getString(prefix+".base_url", defaults.BaseURL),
		APIKey:     s.configStore.GetString(prefix + ".api_key"),
		Dimensions: s.getInt(prefix+".dimensions", defaults.Dimensions),
	}
}
