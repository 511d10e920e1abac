// Package semantic joins an embedding service and a vector index into the
// semantic index the pipeline consumes.
package semantic

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.SemanticIndex = (*Index)(nil)

// DefaultBatchSize is the number of texts sent per embedding request.
const DefaultBatchSize = 32

// Index embeds node text and stores the vectors.
type Index struct {
	embedder  driven.EmbeddingService
	vectors   driven.VectorIndex
	batchSize int
}

// Option configures an Index.
type Option func(*Index)

// WithBatchSize sets the embedding batch size. Values below one are ignored.
func WithBatchSize(n int) Option {
	return func(i *Index) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

// New creates a semantic index over embedder and vectors.
func New(embedder driven.EmbeddingService, vectors driven.VectorIndex, opts ...Option) *Index {
	i := &Index{
		embedder:  embedder,
		vectors:   vectors,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// InsertNodes embeds nodes batch by batch and upserts each batch.
// A failure leaves earlier batches in place; re-inserting them is harmless.
func (i *Index) InsertNodes(ctx context.Context, nodes []domain.Node) error {
	for start := 0; start < len(nodes); start += i.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+i.batchSize, len(nodes))
		batch := nodes[start:end]

		texts := make([]string, len(batch))
		for j, n := range batch {
			texts[j] = n.Text
		}

		embeddings, err := i.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embed batch %d-%d: got %d embeddings for %d texts",
				start, end, len(embeddings), len(batch))
		}

		records := make([]driven.VectorRecord, len(batch))
		for j, n := range batch {
			records[j] = driven.VectorRecord{Node: n, Embedding: embeddings[j]}
		}
		if err := i.vectors.Upsert(ctx, records); err != nil {
			return fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
		}
		logger.Debug("semantic: inserted nodes %d-%d of %d", start, end, len(nodes))
	}
	return nil
}

// Persist flushes the vector index.
func (i *Index) Persist(ctx context.Context) error {
	if err := i.vectors.Flush(ctx); err != nil {
		return fmt.Errorf("flush vector index: %w", err)
	}
	return nil
}

// RetrieveTopK embeds query and searches the vector index.
func (i *Index) RetrieveTopK(ctx context.Context, query string, k int) ([]driven.VectorHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	vec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := i.vectors.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search vector index: %w", err)
	}
	return hits, nil
}

// IsPopulated reports whether the vector index holds any node.
func (i *Index) IsPopulated(ctx context.Context) (bool, error) {
	n, err := i.vectors.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count vector index: %w", err)
	}
	return n > 0, nil
}

// Close closes the vector index and the embedding service.
func (i *Index) Close() error {
	vecErr := i.vectors.Close()
	embErr := i.embedder.Close()
	if vecErr != nil {
		return vecErr
	}
	return embErr
}
