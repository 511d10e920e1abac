package driven

import (
	"context"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

// PostProcessor turns a normalised document into chunks.
// Splitters ignore their input chunks and create new ones; refiners receive
// the previous processor's chunks and return a modified list.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the document's chunks in order.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
