package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// MockRetrievalService implements driving.RetrievalService for testing.
type MockRetrievalService struct {
	RetrieveContextFunc func(ctx context.Context, req domain.RetrievalRequest) (*domain.RetrievalResult, error)
}

func (m *MockRetrievalService) Retrieve(
	context.Context, domain.TenantID, string, int,
) ([]domain.RetrievedChunk, error) {
	return nil, nil
}

func (m *MockRetrievalService) RetrieveContext(
	ctx context.Context, req domain.RetrievalRequest,
) (*domain.RetrievalResult, error) {
	if m.RetrieveContextFunc != nil {
		return m.RetrieveContextFunc(ctx, req)
	}
	return &domain.RetrievalResult{}, nil
}

// MockIngestService implements driving.IngestService for testing.
type MockIngestService struct {
	StatsFunc func(ctx context.Context, tenant domain.TenantID) (domain.IndexStats, error)
}

func (m *MockIngestService) Ingest(context.Context, domain.IngestRequest) (*domain.IngestResult, error) {
	return &domain.IngestResult{}, nil
}

func (m *MockIngestService) DeleteDocument(context.Context, domain.TenantID, string) (int, error) {
	return 0, nil
}

func (m *MockIngestService) ClearTenant(context.Context, domain.TenantID) error {
	return nil
}

func (m *MockIngestService) Stats(ctx context.Context, tenant domain.TenantID) (domain.IndexStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, tenant)
	}
	return domain.IndexStats{TenantID: tenant}, nil
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   Ports
		wantErr error
	}{
		{
			name:  "retrieval only",
			ports: Ports{Retrieval: &MockRetrievalService{}, Tenant: "7"},
		},
		{
			name:  "with ingest",
			ports: Ports{Retrieval: &MockRetrievalService{}, Ingest: &MockIngestService{}, Tenant: "7"},
		},
		{
			name:    "missing retrieval",
			ports:   Ports{Tenant: "7"},
			wantErr: ErrMissingRetrievalService,
		},
		{
			name:    "missing tenant",
			ports:   Ports{Retrieval: &MockRetrievalService{}},
			wantErr: ErrInvalidPorts,
		},
		{
			name:    "bad tenant",
			ports:   Ports{Retrieval: &MockRetrievalService{}, Tenant: "../7"},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
