package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
	"github.com/custodia-labs/ragline/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService embeds chunk log records whose identity is not yet known.
// Runs are serialised: one read-modify-write of the known set at a time.
type IndexService struct {
	mu       sync.Mutex
	chunks   driven.ChunkStore
	knownIDs driven.KnownIDStore
	index    driven.SemanticIndex
}

// NewIndexService creates a new index service.
func NewIndexService(
	chunks driven.ChunkStore,
	knownIDs driven.KnownIDStore,
	index driven.SemanticIndex,
) *IndexService {
	return &IndexService{
		chunks:   chunks,
		knownIDs: knownIDs,
		index:    index,
	}
}

// Index runs one incremental indexing pass over the whole chunk log.
//
// The known set is only extended after the semantic index confirms both the
// insert and the persist. Insert or persist failures wrap
// domain.ErrCapabilityFailure and leave the known set untouched.
func (s *IndexService) Index(ctx context.Context) (*domain.IndexStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	log := logger.Slog().With("run_id", runID)

	records, err := s.chunks.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read chunk log: %w", err)
	}
	known, err := s.knownIDs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load known ids: %w", err)
	}

	nodes, newIDs, scan := SelectNew(records, known)
	stats := &domain.IndexStats{ScanStats: scan}
	log.Debug("index scan", "total_read", scan.TotalRead, "skipped", scan.Skipped, "new_found", scan.NewFound)

	if len(nodes) == 0 {
		stats.Message = domain.MessageNothingToEmbed
		return stats, nil
	}

	if s.index == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCapabilityFailure, domain.ErrEmbeddingUnavailable)
	}
	if err := s.index.InsertNodes(ctx, nodes); err != nil {
		return nil, fmt.Errorf("%w: insert nodes: %w", domain.ErrCapabilityFailure, err)
	}
	if err := s.index.Persist(ctx); err != nil {
		return nil, fmt.Errorf("%w: persist index: %w", domain.ErrCapabilityFailure, err)
	}

	if err := s.knownIDs.Save(ctx, known.Union(newIDs)); err != nil {
		return nil, fmt.Errorf("save known ids: %w", err)
	}

	stats.EmbeddedNow = len(nodes)
	stats.Message = domain.MessageEmbedded
	log.Info("index run complete", "embedded_now", stats.EmbeddedNow)
	return stats, nil
}

// KnownIDs returns the sorted identities already embedded.
func (s *IndexService) KnownIDs(ctx context.Context) ([]string, error) {
	known, err := s.knownIDs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load known ids: %w", err)
	}
	return known.Sorted(), nil
}
