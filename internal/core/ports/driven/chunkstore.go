package driven

import (
	"context"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

// ChunkStore is the append-only log of chunk records.
// Implementations serialise writers and never expose a half-written record.
type ChunkStore interface {
	// Append durably adds records to the end of the log, in order.
	Append(ctx context.Context, records []domain.ChunkRecord) error

	// ReadAll returns every complete record in append order.
	// A missing log yields an empty slice.
	ReadAll(ctx context.Context) ([]domain.ChunkRecord, error)
}

// KnownIDStore persists the set of identities already embedded.
type KnownIDStore interface {
	// Load returns the persisted set, or an empty set on first run.
	Load(ctx context.Context) (*domain.EmbeddedIDSet, error)

	// Save atomically replaces the persisted set.
	Save(ctx context.Context, ids *domain.EmbeddedIDSet) error
}

// UploadStore keeps uploaded files under collision-avoiding names.
type UploadStore interface {
	// Save writes data under filename, appending a numeric disambiguator
	// before the extension when the name is taken. Returns the stored path.
	Save(ctx context.Context, filename string, data []byte) (string, error)

	// Remove deletes a previously stored file.
	Remove(path string) error

	// Dir returns the directory files are stored in.
	Dir() string
}
