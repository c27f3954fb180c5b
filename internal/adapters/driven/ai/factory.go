// Package ai provides factory functions for creating embedding service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	hashingembed "github.com/custodia-labs/campusrag/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/campusrag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/campusrag/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
	"github.com/custodia-labs/campusrag/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Selection is the outcome of choosing an embedding service at startup.
type Selection struct {
	// Service is the chosen, reachable embedding service.
	Service driven.EmbeddingService

	// Provider is the provider behind Service.
	Provider domain.AIProvider

	// FellBack is true when the primary provider was not used.
	FellBack bool

	// Warnings lists why earlier candidates were skipped.
	Warnings []string
}

// Close releases the selected service.
func (s *Selection) Close() error {
	if s == nil || s.Service == nil {
		return nil
	}
	return s.Service.Close()
}

// SelectEmbeddingService tries the primary provider, then the configured
// fallback, then the built-in hashing provider, and returns the first one
// that answers a ping. The choice is made once per process.
func SelectEmbeddingService(ctx context.Context, settings domain.Settings) (*Selection, error) {
	candidates := []domain.EmbeddingSettings{settings.Embedding}
	if settings.Fallback.IsConfigured() && settings.Fallback != settings.Embedding {
		candidates = append(candidates, settings.Fallback)
	}
	builtin := domain.EmbeddingSettings{
		Provider:   domain.AIProviderHashing,
		Dimensions: domain.DefaultHashingDimension,
	}
	if candidates[len(candidates)-1].Provider != domain.AIProviderHashing {
		candidates = append(candidates, builtin)
	}

	sel := &Selection{}
	for i, candidate := range candidates {
		svc, err := CreateAndValidateEmbeddingService(ctx, &candidate)
		if err != nil {
			msg := fmt.Sprintf("%s embedding unavailable: %v", candidate.Provider, err)
			logger.Warn("%s", msg)
			sel.Warnings = append(sel.Warnings, msg)
			continue
		}
		sel.Service = svc
		sel.Provider = candidate.Provider
		sel.FellBack = i > 0
		if sel.FellBack {
			logger.Error("using fallback embedding provider %s (%s)", candidate.Provider, svc.ModelName())
		} else {
			logger.Debug("using embedding provider %s (%s, %d dims)", candidate.Provider, svc.ModelName(), svc.Dimensions())
		}
		return sel, nil
	}
	return nil, fmt.Errorf("%w: no provider reachable", domain.ErrEmbeddingUnavailable)
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(
	ctx context.Context, settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// An unset configuration is not an error.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	if settings == nil || settings.Provider == "" {
		return nil
	}
	svc, err := CreateAndValidateEmbeddingService(ctx, settings)
	if err != nil {
		return err
	}
	return svc.Close()
}

// CreateEmbeddingService creates the embedding service for settings.Provider.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrInvalidInput)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrInvalidInput, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil
	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)
	case domain.AIProviderHashing:
		return hashingembed.NewEmbeddingService(hashingembed.Config{
			Dimensions: settings.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.ResolvedDimensions()
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.ResolvedDimensions(),
	})
}
