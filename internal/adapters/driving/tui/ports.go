// Package tui provides an interactive terminal user interface for ragline.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI talks to.
type Ports struct {
	// Chat answers questions. Required.
	Chat driving.ChatService

	// Retrieval backs the retrieve view.
	Retrieval driving.RetrievalService

	// Index runs an index pass from the menu.
	Index driving.IndexService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	chat driving.ChatService,
	retrieval driving.RetrievalService,
	index driving.IndexService,
) *Ports {
	return &Ports{
		Chat:      chat,
		Retrieval: retrieval,
		Index:     index,
	}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
