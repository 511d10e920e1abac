package driving

import (
	"context"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

// IngestService accepts uploaded files into the pipeline.
type IngestService interface {
	// Ingest validates, stores, extracts, chunks, and appends one file.
	// Returns domain.ErrUnsupportedFileType or domain.ErrExtractionEmpty for
	// rejected uploads.
	Ingest(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error)
}
