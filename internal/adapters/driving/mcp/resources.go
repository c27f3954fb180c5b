package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for campusrag resources.
	uriScheme = "campusrag://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "formats",
		Name:        "formats",
		Description: "File extensions that can be ingested",
		MIMEType:    "application/json",
	}, s.handleFormatsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "tenants/{tenantId}/stats",
		Name:        "tenant-stats",
		Description: "Size and dimensionality of a college's index",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// handleFormatsResource lists the supported file extensions.
func (s *Server) handleFormatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, domain.SupportedExtensions())
}

// statsInfo is the JSON shape of the stats resource.
type statsInfo struct {
	TenantID  string `json:"tenant_id"`
	Slots     int    `json:"slots"`
	Dimension int    `json:"dimension"`
	Documents int    `json:"documents"`
}

// handleStatsResource returns the index stats of one tenant.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Ingest == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	tenant := extractTenantID(req.Params.URI)
	if tenant == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats, err := s.ports.Ingest.Stats(ctx, domain.TenantID(tenant))
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}

	return jsonResource(req.Params.URI, statsInfo{
		TenantID:  stats.TenantID.String(),
		Slots:     stats.Slots,
		Dimension: stats.Dimension,
		Documents: stats.Documents,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractTenantID extracts the tenant ID from a URI like campusrag://tenants/{tenantId}/stats.
func extractTenantID(uri string) string {
	const prefix = uriScheme + "tenants/"
	const suffix = "/stats"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
