package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Ensure KnownIDStore implements the interface.
var _ driven.KnownIDStore = (*KnownIDStore)(nil)

// DefaultKnownIDsFileName is the file name inside the storage directory.
const DefaultKnownIDsFileName = "embedded_ids.json"

// knownIDsDocument is the on-disk shape.
type knownIDsDocument struct {
	EmbeddedIDs []string `json:"embedded_ids"`
}

// KnownIDStore persists the embedded identity set as a JSON document.
// Saves go through a temp file and rename, so readers see either the old
// or the new set.
type KnownIDStore struct {
	mu   sync.Mutex
	path string
}

// NewKnownIDStore creates a store at path, creating the parent directory.
func NewKnownIDStore(path string) (*KnownIDStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &KnownIDStore{path: path}, nil
}

// Path returns the file path.
func (s *KnownIDStore) Path() string {
	return s.path
}

// Load reads the set. A missing file is an empty set.
func (s *KnownIDStore) Load(_ context.Context) (*domain.EmbeddedIDSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewEmbeddedIDSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading known ids: %w", err)
	}

	var doc knownIDsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding known ids %s: %w", s.path, err)
	}

	ids := make([]domain.ChunkIdentity, len(doc.EmbeddedIDs))
	for i, id := range doc.EmbeddedIDs {
		ids[i] = domain.ChunkIdentity(id)
	}
	return domain.NewEmbeddedIDSet(ids...), nil
}

// Save atomically replaces the persisted set. Identities are written sorted.
func (s *KnownIDStore) Save(ctx context.Context, ids *domain.EmbeddedIDSet) error {
	if ids == nil {
		ids = domain.NewEmbeddedIDSet()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(knownIDsDocument{EmbeddedIDs: ids.Sorted()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding known ids: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return writeFileAtomic(s.path, data, 0o644)
}

// writeFileAtomic writes data to a sibling temp file, syncs it, and renames
// it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
