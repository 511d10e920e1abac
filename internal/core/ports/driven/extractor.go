package driven

import (
	"context"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

// TextExtractor turns file bytes into best-effort plain text.
// Extraction quality is the implementation's concern; an empty result is not
// an error at this layer.
type TextExtractor interface {
	// Kinds returns the file kinds this extractor handles.
	Kinds() []domain.FileKind

	// Extract returns the raw text found in data.
	Extract(ctx context.Context, data []byte, kind domain.FileKind) (string, error)
}

// ExtractorRegistry dispatches extraction to the extractor registered for a kind.
type ExtractorRegistry interface {
	TextExtractor

	// Register adds an extractor for all of its kinds, replacing earlier ones.
	Register(extractor TextExtractor)
}
