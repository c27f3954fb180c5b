package mcp

import (
	"context"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result *domain.RetrievalResult
	err    error
	got    domain.RetrievalRequest
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context, _ domain.TenantID, _ string, _ int,
) ([]domain.RetrievedChunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result.Chunks, nil
}

func (m *mockRetrievalService) RetrieveContext(
	_ context.Context, req domain.RetrievalRequest,
) (*domain.RetrievalResult, error) {
	m.got = req
	return m.result, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	stats domain.IndexStats
	err   error
}

func (m *mockIngestService) Ingest(_ context.Context, _ domain.IngestRequest) (*domain.IngestResult, error) {
	return nil, m.err
}

func (m *mockIngestService) DeleteDocument(_ context.Context, _ domain.TenantID, _ string) (int, error) {
	return 0, m.err
}

func (m *mockIngestService) ClearTenant(_ context.Context, _ domain.TenantID) error {
	return m.err
}

func (m *mockIngestService) Stats(_ context.Context, tenant domain.TenantID) (domain.IndexStats, error) {
	if m.err != nil {
		return domain.IndexStats{}, m.err
	}
	stats := m.stats
	stats.TenantID = tenant
	return stats, nil
}
