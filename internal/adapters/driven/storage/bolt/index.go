// Package bolt provides a bbolt-backed implementation of driven.VectorIndex.
//
// Nodes live in one bucket keyed by chunk identity, each value a JSON
// document holding the node and its embedding. An order bucket keeps
// first-insertion order so search ties rank stably.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/ragline/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultFileName is the database file name inside the index directory.
const DefaultFileName = "nodes.bolt"

var (
	bucketNodes = []byte("nodes")
	bucketOrder = []byte("order")
)

// storedNode is the on-disk value.
type storedNode struct {
	Node      json.RawMessage `json:"node"`
	Embedding []float32       `json:"embedding"`
}

// Index is a bbolt-backed vector index.
type Index struct {
	db *bbolt.DB
}

// NewIndex opens (or creates) the database inside dir.
func NewIndex(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dir, DefaultFileName), 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketNodes); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketOrder)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Index{db: db}, nil
}

// Path returns the database file path.
func (i *Index) Path() string {
	return i.db.Path()
}

// Upsert inserts or replaces records in one transaction.
func (i *Index) Upsert(_ context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	return i.db.Update(func(tx *bbolt.Tx) error {
		nodes := tx.Bucket(bucketNodes)
		order := tx.Bucket(bucketOrder)

		for _, r := range records {
			key := []byte(r.ID())

			node, err := json.Marshal(r.Node)
			if err != nil {
				return fmt.Errorf("encoding node: %w", err)
			}
			value, err := json.Marshal(storedNode{Node: node, Embedding: r.Embedding})
			if err != nil {
				return fmt.Errorf("encoding record: %w", err)
			}

			if nodes.Get(key) == nil {
				seq, err := order.NextSequence()
				if err != nil {
					return err
				}
				if err := order.Put(seqKey(seq), key); err != nil {
					return err
				}
			}
			if err := nodes.Put(key, value); err != nil {
				return fmt.Errorf("storing node %s: %w", r.ID(), err)
			}
		}
		return nil
	})
}

// Search scans every node in insertion order and ranks by cosine similarity.
func (i *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	var records []driven.VectorRecord
	err := i.db.View(func(tx *bbolt.Tx) error {
		nodes := tx.Bucket(bucketNodes)
		return tx.Bucket(bucketOrder).ForEach(func(_, id []byte) error {
			data := nodes.Get(id)
			if data == nil {
				return nil
			}
			var stored storedNode
			if err := json.Unmarshal(data, &stored); err != nil {
				return fmt.Errorf("decoding record %s: %w", id, err)
			}
			var r driven.VectorRecord
			if err := json.Unmarshal(stored.Node, &r.Node); err != nil {
				return fmt.Errorf("decoding node %s: %w", id, err)
			}
			r.Embedding = stored.Embedding
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return similarity.TopK(query, records, k), nil
}

// Count returns the number of stored nodes.
func (i *Index) Count(_ context.Context) (int, error) {
	var n int
	err := i.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketNodes).Stats().KeyN
		return nil
	})
	return n, err
}

// Flush syncs the database file. Committed transactions are already durable.
func (i *Index) Flush(_ context.Context) error {
	return i.db.Sync()
}

// Close closes the database.
func (i *Index) Close() error {
	return i.db.Close()
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
