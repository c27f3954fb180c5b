package driving

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment overrides applied.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// SetEmbeddingProvider configures the primary embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// GetPipelineConfig returns the post-processor pipeline configuration.
	GetPipelineConfig() domain.PipelineConfig

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig(ctx context.Context) error
}
