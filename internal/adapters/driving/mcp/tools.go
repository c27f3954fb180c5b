package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/campusrag/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	TenantID      string  `json:"tenant_id" jsonschema:"the college whose index is searched"`
	Query         string  `json:"query" jsonschema:"free-form text to find similar chunks for"`
	TopK          int     `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default from settings)"`
	MinSimilarity float64 `json:"min_similarity,omitempty" jsonschema:"drop chunks below this similarity in [-1, 1]"`
	IncludeImages bool    `json:"include_images,omitempty" jsonschema:"also return images whose text matches the query"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks   []ChunkOutput      `json:"chunks"`
	Images   []ImageOutput      `json:"images"`
	Sources  []domain.SourceRef `json:"sources"`
	Count    int                `json:"count"`
	Degraded bool               `json:"degraded,omitempty"`
	Warning  string             `json:"warning,omitempty"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	Content    string         `json:"content"`
	DocumentID string         `json:"document_id"`
	ChunkIndex int            `json:"chunk_index"`
	Title      string         `json:"title"`
	Source     string         `json:"source"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ImageOutput represents an image related to the query.
type ImageOutput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	FilePath    string   `json:"file_path"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the chunks of a college's documents most similar to a query",
	}, s.handleRetrieve)
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	result, err := s.ports.Retrieval.RetrieveContext(ctx, domain.RetrievalRequest{
		TenantID:      domain.TenantID(input.TenantID),
		Query:         input.Query,
		TopK:          input.TopK,
		MinSimilarity: input.MinSimilarity,
		IncludeImages: input.IncludeImages,
	})
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks:   make([]ChunkOutput, len(result.Chunks)),
		Images:   make([]ImageOutput, len(result.Images)),
		Sources:  result.Sources(),
		Count:    len(result.Chunks),
		Degraded: result.Degraded,
		Warning:  result.Warning,
	}
	for i, c := range result.Chunks {
		output.Chunks[i] = ChunkOutput{
			Content:    c.Content,
			DocumentID: c.Record.DocumentID,
			ChunkIndex: c.Record.ChunkIndex,
			Title:      c.Record.Title,
			Source:     c.Record.Source,
			Similarity: c.Similarity,
			Metadata:   c.Record.Extra,
		}
	}
	for i, img := range result.Images {
		output.Images[i] = ImageOutput{
			ID:          img.ID,
			Title:       img.Title,
			FilePath:    img.FilePath,
			Description: img.Description,
			Tags:        img.TagList(),
		}
	}

	return nil, output, nil
}
