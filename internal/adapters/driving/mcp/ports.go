package mcp

import (
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Retrieval runs similarity queries. Required.
	Retrieval driving.RetrievalService

	// Chat answers grounded questions.
	Chat driving.ChatService

	// Index runs incremental indexing and lists known identities.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
