package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/campusrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/campusrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/campusrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/campusrag/internal/adapters/driven/vectorstore/flat"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/services"
	"github.com/custodia-labs/campusrag/internal/logger"
	"github.com/custodia-labs/campusrag/internal/normalisers"
	"github.com/custodia-labs/campusrag/internal/postprocessors"
)

// bootstrap builds the services from the configuration directory. The
// embedding provider is chosen once here and shared by every service.
func bootstrap(ctx context.Context, opts cli.BootstrapOptions) (*cli.Services, func(), error) {
	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = file.DefaultDir(); err != nil {
			return nil, nil, err
		}
	}
	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsService}, func() {}, nil
	}

	settings, err := services.LoadSettings(configStore)
	if err != nil {
		return nil, nil, err
	}
	logger.Section("Startup")
	logger.Debug("config: %s", configStore.Path())
	logger.Debug("data dir: %s", settings.DataDir)

	pipelineRegistry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(pipelineRegistry)
	pipeline, err := pipelineRegistry.BuildPipeline(domain.PipelineConfigFor(settings.Chunking))
	if err != nil {
		return nil, nil, fmt.Errorf("building pipeline: %w", err)
	}

	selection, err := ai.SelectEmbeddingService(ctx, settings)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		_ = selection.Close()
		return nil, nil, err
	}
	registry := flat.NewRegistry(settings.DataDir)

	ingest := services.NewIngestService(registry, normalisers.NewRegistry(), pipeline, selection.Service,
		services.IngestOptions{
			BatchSize:    settings.BatchSize,
			EmbedTimeout: settings.Retrieval.EmbedTimeout,
		})
	ingest.SetChunkStore(store.ChunkStore())

	retrieval := services.NewRetrievalService(registry, selection.Service, services.RetrievalOptions{
		TopK:          settings.Retrieval.TopK,
		MinSimilarity: settings.Retrieval.MinSimilarity,
		EmbedTimeout:  settings.Retrieval.EmbedTimeout,
	})
	retrieval.SetImageStore(store.ImageStore())

	cleanup := func() {
		if err := errors.Join(registry.Close(), store.Close(), selection.Close()); err != nil {
			logger.Error("shutdown: %v", err)
		}
	}

	return &cli.Services{
		Ingest:    ingest,
		Retrieval: retrieval,
		Image:     services.NewImageService(store.ImageStore()),
		Settings:  settingsService,
	}, cleanup, nil
}
