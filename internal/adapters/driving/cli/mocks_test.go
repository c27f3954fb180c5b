package cli

import (
	"context"
	"fmt"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// mockIngestService records requests and answers from canned values.
type mockIngestService struct {
	requests []domain.IngestRequest
	deleted  []string
	cleared  []domain.TenantID
	fail     map[string]error
	removed  int
	stats    domain.IndexStats
	err      error
}

func (m *mockIngestService) Ingest(_ context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	m.requests = append(m.requests, req)
	if err := m.fail[req.DocumentID]; err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	id := req.DocumentID
	if id == "" {
		id = req.Path
	}
	return &domain.IngestResult{DocumentID: id, Format: domain.FormatPlainText, Chunks: 3, Dimension: 384}, nil
}

func (m *mockIngestService) DeleteDocument(_ context.Context, _ domain.TenantID, id string) (int, error) {
	m.deleted = append(m.deleted, id)
	return m.removed, m.err
}

func (m *mockIngestService) ClearTenant(_ context.Context, tenant domain.TenantID) error {
	m.cleared = append(m.cleared, tenant)
	return m.err
}

func (m *mockIngestService) Stats(_ context.Context, tenant domain.TenantID) (domain.IndexStats, error) {
	stats := m.stats
	stats.TenantID = tenant
	return stats, m.err
}

// mockRetrievalService returns a fixed result.
type mockRetrievalService struct {
	got    domain.RetrievalRequest
	result *domain.RetrievalResult
	err    error
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context, _ domain.TenantID, _ string, _ int,
) ([]domain.RetrievedChunk, error) {
	return m.result.Chunks, m.err
}

func (m *mockRetrievalService) RetrieveContext(
	_ context.Context, req domain.RetrievalRequest,
) (*domain.RetrievalResult, error) {
	m.got = req
	return m.result, m.err
}

// mockImageService keeps images in a slice.
type mockImageService struct {
	images []domain.Image
	err    error
}

func (m *mockImageService) Add(_ context.Context, img domain.Image) (*domain.Image, error) {
	if m.err != nil {
		return nil, m.err
	}
	img.ID = fmt.Sprintf("img-%d", len(m.images)+1)
	if img.Title == "" {
		img.Title = domain.TitleFromPath(img.FilePath)
	}
	m.images = append(m.images, img)
	return &img, nil
}

func (m *mockImageService) List(_ context.Context, _ domain.TenantID, tag string) ([]domain.Image, error) {
	var out []domain.Image
	for _, img := range m.images {
		if tag == "" || img.HasTag(tag) {
			out = append(out, img)
		}
	}
	return out, m.err
}

func (m *mockImageService) Delete(_ context.Context, _ domain.TenantID, id string) error {
	for i, img := range m.images {
		if img.ID == id {
			m.images = append(m.images[:i], m.images[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// mockSettingsService holds settings in memory.
type mockSettingsService struct {
	settings    domain.Settings
	validateErr error
	pingErr     error
	setCalls    []string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultSettings()}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.Settings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.setCalls = append(m.setCalls, fmt.Sprintf("%s/%s/%s", provider, model, apiKey))
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

func (m *mockSettingsService) GetPipelineConfig() domain.PipelineConfig {
	return domain.PipelineConfigFor(m.settings.Chunking)
}

func (m *mockSettingsService) ValidateEmbeddingConfig(context.Context) error { return m.pingErr }

// testServices are the mocks installed by setupTestServices.
type testServices struct {
	ingest    *mockIngestService
	retrieval *mockRetrievalService
	image     *mockImageService
	settings  *mockSettingsService
}

// setupTestServices installs fresh mocks and returns a cleanup function
// that removes them and resets command flags.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		ingest: &mockIngestService{},
		retrieval: &mockRetrievalService{result: &domain.RetrievalResult{
			Chunks: []domain.RetrievedChunk{{
				Content: "The library opens at 8am on weekdays.",
				Record: domain.ChunkRecord{
					DocumentID: "hours.md",
					ChunkIndex: 0,
					Source:     "/docs/hours.md",
					Title:      "Library Hours",
				},
				Similarity: 0.873,
			}},
			Images: []domain.Image{},
		}},
		image:    &mockImageService{},
		settings: newMockSettingsService(),
	}
	SetServices(&Services{
		Ingest:    ts.ingest,
		Retrieval: ts.retrieval,
		Image:     ts.image,
		Settings:  ts.settings,
	})

	return ts, func() {
		SetServices(nil)
		resetFlags()
	}
}

// resetFlags restores every package-level flag variable.
func resetFlags() {
	ingestTenant, ingestID, ingestTitle, ingestText = "", "", "", ""
	ingestReplace = false
	// The flag value keeps writing into this map once it has been set.
	ingestMeta = map[string]string{}
	searchTenant = ""
	searchTopK, searchMinSimilarity = 0, 0
	searchImages, searchJSON = false, false
	manageTenant = ""
	clearYes, statsJSON = false, false
	imageTenant, imageTitle, imageDescription, imageTagFilter = "", "", "", ""
	imageTags = nil
	settingsModel, settingsAPIKey = "", ""
	watchTenant = ""
	watchInitial = false
	tuiTenant = ""
}
