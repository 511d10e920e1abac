package driven

import (
	"context"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

// VectorIndex stores embedded nodes and runs similarity search over them.
// Upsert is keyed by node identity, so inserting the same node twice leaves
// one entry.
type VectorIndex interface {
	// Upsert inserts or replaces the given records.
	Upsert(ctx context.Context, records []VectorRecord) error

	// Search finds the k records most similar to query, best first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Flush makes all prior upserts durable.
	Flush(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorRecord is a node together with its embedding.
type VectorRecord struct {
	Node      domain.Node
	Embedding []float32
}

// ID returns the record key.
func (r VectorRecord) ID() domain.ChunkIdentity {
	return r.Node.Metadata.ChunkID
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// Node is the matched node.
	Node domain.Node

	// Score is the similarity; higher is closer. Nil when the backend
	// reports no score.
	Score *float64
}

// SemanticIndex is the embedding/vector-index capability consumed by the
// pipeline: nodes go in as text, queries come out as scored nodes.
type SemanticIndex interface {
	// InsertNodes embeds and stores nodes. Idempotent per node identity.
	InsertNodes(ctx context.Context, nodes []domain.Node) error

	// Persist makes every prior insert durable.
	Persist(ctx context.Context) error

	// RetrieveTopK returns up to k nodes most similar to query.
	RetrieveTopK(ctx context.Context, query string, k int) ([]VectorHit, error)

	// IsPopulated reports whether any node has ever been persisted.
	IsPopulated(ctx context.Context) (bool, error)

	// Close releases resources.
	Close() error
}
