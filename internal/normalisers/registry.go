package normalisers

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction by file kind.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.FileKind]driven.TextExtractor
}

// NewRegistry creates a registry holding the given extractors.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	r := &Registry{extractors: make(map[domain.FileKind]driven.TextExtractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor for every kind it supports.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, kind := range extractor.Kinds() {
		r.extractors[kind] = extractor
	}
}

// Kinds returns every registered kind.
func (r *Registry) Kinds() []domain.FileKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.FileKind, 0, len(r.extractors))
	for kind := range r.extractors {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Extract runs the extractor registered for kind.
func (r *Registry) Extract(ctx context.Context, data []byte, kind domain.FileKind) (string, error) {
	r.mu.RLock()
	extractor, ok := r.extractors[kind]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: no extractor for %q", domain.ErrUnsupportedFileType, kind)
	}
	return extractor.Extract(ctx, data, kind)
}
