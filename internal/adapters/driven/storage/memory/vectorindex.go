// Package memory provides in-process implementations of driven ports.
// They hold everything in maps and lose it on exit.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ragline/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a brute-force cosine index kept in memory.
// Records keep their first-insertion order so equal scores rank stably.
type VectorIndex struct {
	mu      sync.RWMutex
	order   []domain.ChunkIdentity
	records map[domain.ChunkIdentity]driven.VectorRecord
}

// NewVectorIndex creates an empty index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		records: make(map[domain.ChunkIdentity]driven.VectorRecord),
	}
}

// Upsert inserts or replaces records by identity.
func (v *VectorIndex) Upsert(_ context.Context, records []driven.VectorRecord) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range records {
		id := r.ID()
		if _, exists := v.records[id]; !exists {
			v.order = append(v.order, id)
		}
		v.records[id] = r
	}
	return nil
}

// Search returns the k most similar records.
func (v *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	v.mu.RLock()
	all := make([]driven.VectorRecord, 0, len(v.order))
	for _, id := range v.order {
		all = append(all, v.records[id])
	}
	v.mu.RUnlock()

	return similarity.TopK(query, all, k), nil
}

// Count returns the number of records.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records), nil
}

// Flush is a no-op.
func (v *VectorIndex) Flush(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}
