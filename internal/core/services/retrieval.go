package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService runs similarity queries against the semantic index.
type RetrievalService struct {
	index driven.SemanticIndex
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(index driven.SemanticIndex) *RetrievalService {
	return &RetrievalService{index: index}
}

// ValidateTopK reports domain.ErrInvalidInput when topK is outside
// [domain.MinTopK, domain.MaxTopK].
func ValidateTopK(topK int) error {
	if topK < domain.MinTopK || topK > domain.MaxTopK {
		return fmt.Errorf("%w: top_k must be between %d and %d, got %d",
			domain.ErrInvalidInput, domain.MinTopK, domain.MaxTopK, topK)
	}
	return nil
}

// Retrieve returns up to topK hits for query, most relevant first.
// Returns domain.ErrIndexNotFound when nothing has been indexed yet.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievalHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	if err := ValidateTopK(topK); err != nil {
		return nil, err
	}
	if s.index == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCapabilityFailure, domain.ErrEmbeddingUnavailable)
	}

	populated, err := s.index.IsPopulated(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCapabilityFailure, err)
	}
	if !populated {
		return nil, domain.ErrIndexNotFound
	}

	found, err := s.index.RetrieveTopK(ctx, query, topK)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: retrieve: %w", domain.ErrCapabilityFailure, err)
	}
	if len(found) > topK {
		found = found[:topK]
	}

	hits := make([]domain.RetrievalHit, 0, len(found))
	for _, h := range found {
		hit := domain.RetrievalHit{
			DocID:   h.Node.Metadata.DocID,
			ChunkID: h.Node.Metadata.ChunkID,
			Text:    h.Node.Text,
		}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
