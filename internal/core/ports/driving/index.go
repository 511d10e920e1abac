package driving

import (
	"context"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

// IndexService runs incremental indexing over the chunk log.
type IndexService interface {
	// Index embeds every chunk not yet in the known set.
	Index(ctx context.Context) (*domain.IndexStats, error)

	// KnownIDs returns the sorted identities already embedded.
	KnownIDs(ctx context.Context) ([]string, error)
}
