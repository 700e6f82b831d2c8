package mcp

import (
	"github.com/custodia-labs/sitrep/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Brief answers questions with aggregated executive briefs.
	Brief driving.BriefService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Brief == nil {
		return ErrMissingBriefService
	}
	return nil
}
