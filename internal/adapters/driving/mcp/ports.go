package mcp

import (
	"github.com/custodia-labs/campusrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Retrieval answers retrieve tool calls.
	Retrieval driving.RetrievalService

	// Ingest backs the tenant stats resource. Optional.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
