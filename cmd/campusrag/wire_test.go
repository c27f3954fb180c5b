package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/campusrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/campusrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/services"
)

// hashingConfig writes a configuration that needs no network.
func hashingConfig(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	for _, env := range []string{
		services.EnvDataDir, services.EnvEmbeddingProvider, services.EnvOllamaBaseURL, services.EnvOpenAIAPIKey,
	} {
		t.Setenv(env, "")
	}

	configDir = t.TempDir()
	dataDir = filepath.Join(t.TempDir(), "colleges")
	store, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	for key, value := range map[string]any{
		"data_dir":             dataDir,
		"embedding.provider":   "hashing",
		"embedding.model":      "hashing",
		"embedding.dimensions": 128,
		"fallback.provider":    "hashing",
		"chunking.size":        120,
		"chunking.overlap":     10,
	} {
		require.NoError(t, store.Set(key, value))
	}
	return configDir, dataDir
}

func TestBootstrap_SettingsOnly(t *testing.T) {
	configDir, _ := hashingConfig(t)

	svc, cleanup, err := bootstrap(context.Background(), cli.BootstrapOptions{ConfigDir: configDir, SettingsOnly: true})
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, svc.Ingest)
	require.NotNil(t, svc.Settings)
	settings, err := svc.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderHashing, settings.Embedding.Provider)
	assert.Equal(t, 120, settings.Chunking.Size)
}

func TestBootstrap_EndToEnd(t *testing.T) {
	configDir, dataDir := hashingConfig(t)
	ctx := context.Background()

	svc, cleanup, err := bootstrap(ctx, cli.BootstrapOptions{ConfigDir: configDir})
	require.NoError(t, err)

	result, err := svc.Ingest.Ingest(ctx, domain.IngestRequest{
		TenantID:   "7",
		DocumentID: "library",
		Title:      "Library",
		Text:       "The central library opens at 8am and closes at 10pm on weekdays.",
	})
	require.NoError(t, err)
	assert.Equal(t, 128, result.Dimension)

	_, err = svc.Image.Add(ctx, domain.Image{TenantID: "7", FilePath: "/img/library_entrance.jpg", Tags: "library"})
	require.NoError(t, err)

	res, err := svc.Retrieval.RetrieveContext(ctx, domain.RetrievalRequest{
		TenantID: "7", Query: "when does the library open", IncludeImages: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Chunks)
	assert.Equal(t, "library", res.Chunks[0].Record.DocumentID)
	require.Len(t, res.Images, 1)
	assert.False(t, res.Degraded)

	cleanup()

	// The index and the database persist under the data directory.
	_, err = os.Stat(filepath.Join(dataDir, "college_007", "vectorstore"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dataDir, "campusrag.db"))
	assert.NoError(t, err)

	// A second process sees the same index.
	svc, cleanup, err = bootstrap(ctx, cli.BootstrapOptions{ConfigDir: configDir})
	require.NoError(t, err)
	defer cleanup()
	stats, err := svc.Ingest.Stats(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, result.Chunks, stats.Slots)
	assert.Equal(t, 1, stats.Documents)
}

func TestBootstrap_InvalidSettings(t *testing.T) {
	configDir, _ := hashingConfig(t)
	store, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("chunking.overlap", 500))

	_, _, err = bootstrap(context.Background(), cli.BootstrapOptions{ConfigDir: configDir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.toml")
}
