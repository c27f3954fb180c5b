// Package tui provides an interactive terminal browser over a college's
// retrieval index. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Retrieval answers queries. Required.
	Retrieval driving.RetrievalService

	// Ingest reports index statistics for the header. Optional.
	Ingest driving.IngestService

	// Tenant is the college every query runs against.
	Tenant domain.TenantID
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if _, err := domain.NewTenantID(string(p.Tenant)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, err)
	}
	return nil
}
