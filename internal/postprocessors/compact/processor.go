// Package compact drops blank chunks and renumbers the rest.
package compact

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Name is the registry name of the compact refiner.
const Name = "compact"

var _ driven.PostProcessor = (*Processor)(nil)

// Processor removes chunks whose content is whitespace only and assigns
// contiguous positions to the survivors.
type Processor struct{}

// New creates a compact refiner.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process filters and renumbers chunks. Chunks are kept in input order.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		c.Position = len(out)
		if c.DocumentID == "" {
			c.DocumentID = doc.ID
		}
		out = append(out, c)
	}
	return out, nil
}
