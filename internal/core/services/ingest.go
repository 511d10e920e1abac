package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
	"github.com/custodia-labs/ragline/internal/logger"
	"github.com/custodia-labs/ragline/internal/normalisers/text"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService stores an upload, extracts and chunks its text, and appends
// the chunks to the log. With an indexer attached it also runs an index pass.
type IngestService struct {
	uploads   driven.UploadStore
	extractor driven.TextExtractor
	pipeline  driven.PostProcessorPipeline
	chunks    driven.ChunkStore
	indexer   driving.IndexService
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithAutoIndex runs indexer after every successful append.
func WithAutoIndex(indexer driving.IndexService) IngestOption {
	return func(s *IngestService) {
		s.indexer = indexer
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	uploads driven.UploadStore,
	extractor driven.TextExtractor,
	pipeline driven.PostProcessorPipeline,
	chunks driven.ChunkStore,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		uploads:   uploads,
		extractor: extractor,
		pipeline:  pipeline,
		chunks:    chunks,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest accepts one file.
//
// The saved path, including any "(N)" disambiguator, becomes both the
// document id and the source of every chunk. A file whose text is empty after
// normalisation is removed again and reported as domain.ErrExtractionEmpty.
// Chunking or append failures also remove the saved file.
// An automatic index failure does not undo the upload; it is reported in the
// result instead.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	kind, err := domain.FileKindForName(filename)
	if err != nil {
		return nil, err
	}

	path, err := s.uploads.Save(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	content, err := s.extract(ctx, data, kind)
	if err != nil {
		s.discard(path)
		return nil, err
	}

	doc := &domain.Document{ID: path, Source: path, Content: content}
	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		s.discard(path)
		return nil, fmt.Errorf("chunk %s: %w", path, err)
	}

	records := make([]domain.ChunkRecord, 0, len(chunks))
	for _, c := range chunks {
		records = append(records, domain.ChunkRecord{
			DocID:         path,
			Text:          c.Content,
			Source:        path,
			SequenceIndex: c.Position,
		})
	}
	if err := s.chunks.Append(ctx, records); err != nil {
		s.discard(path)
		return nil, fmt.Errorf("append chunks: %w", err)
	}
	logger.Info("ingested %s: %d chunks", path, len(records))

	result := &domain.UploadResult{
		Saved:       true,
		Filename:    filepath.Base(path),
		Path:        path,
		ChunksAdded: len(records),
	}

	if s.indexer == nil {
		return result, nil
	}

	stats, err := s.indexer.Index(ctx)
	if err != nil {
		logger.Warn("automatic index after %s failed: %v", path, err)
		result.Message = err.Error()
		return result, nil
	}
	result.Indexed = true
	result.EmbeddedNow = stats.EmbeddedNow
	result.Message = stats.Message
	return result, nil
}

// discard removes an upload that produced no chunk records.
func (s *IngestService) discard(path string) {
	if err := s.uploads.Remove(path); err != nil {
		logger.Warn("remove rejected upload %s: %v", path, err)
	}
}

// extract returns normalised text. Extractor failures count as empty text.
func (s *IngestService) extract(ctx context.Context, data []byte, kind domain.FileKind) (string, error) {
	raw, err := s.extractor.Extract(ctx, data, kind)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		logger.Debug("extract %s: %v", kind, err)
		return "", fmt.Errorf("%w: %w", domain.ErrExtractionEmpty, err)
	}
	return text.NormaliseExtracted(raw)
}
