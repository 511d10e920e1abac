package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Ensure UploadStore implements the interface.
var _ driven.UploadStore = (*UploadStore)(nil)

// maxNameAttempts bounds the disambiguation loop.
const maxNameAttempts = 10000

// UploadStore saves uploaded files into one directory. A taken name gets a
// "(N)" suffix before the extension, starting at 2.
type UploadStore struct {
	dir string
}

// NewUploadStore creates the store, creating dir if needed.
func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &UploadStore{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *UploadStore) Dir() string {
	return s.dir
}

// Save writes data under the base name of filename and returns the path.
// Names are claimed with O_EXCL, so concurrent uploads of the same name
// get distinct paths.
func (s *UploadStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	base := SafeBaseName(filename)
	if base == "" {
		return "", fmt.Errorf("%w: empty filename", domain.ErrInvalidInput)
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; n <= maxNameAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := base
		if n > 1 {
			name = fmt.Sprintf("%s(%d)%s", stem, n, ext)
		}
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating upload: %w", err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("writing upload: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("closing upload: %w", err)
		}
		return path, nil
	}

	return "", fmt.Errorf("no free name for %s after %d attempts", base, maxNameAttempts)
}

// Remove deletes a stored file. Missing files are not an error.
func (s *UploadStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}

// SafeBaseName strips any directory part from a client-supplied name.
// Both slash styles are treated as separators.
func SafeBaseName(filename string) string {
	name := strings.ReplaceAll(filename, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "." || name == ".." {
		return ""
	}
	return name
}
