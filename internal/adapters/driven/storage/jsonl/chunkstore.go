// Package jsonl provides the append-only chunk log stored as JSON Lines.
//
// Each line holds one record: {"doc_id", "text", "source", "chunk_id"}.
// Appends are written with a single write call followed by fsync, so a
// crash leaves at most one partial trailing line, which readers skip.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/logger"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// DefaultFileName is the log file name inside the storage directory.
const DefaultFileName = "chunks.jsonl"

// maxLineSize bounds a single record. Chunks are small; PDFs with no
// paragraph breaks can still produce a large one.
const maxLineSize = 64 * 1024 * 1024

// ChunkStore is a file-backed driven.ChunkStore.
type ChunkStore struct {
	mu   sync.Mutex
	path string
}

// NewChunkStore creates a store writing to path. The parent directory is
// created if needed; the file itself is created on first append.
func NewChunkStore(path string) (*ChunkStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &ChunkStore{path: path}, nil
}

// Path returns the log file path.
func (s *ChunkStore) Path() string {
	return s.path
}

// Append adds records to the end of the log.
func (s *ChunkStore) Append(ctx context.Context, records []domain.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		// Encode appends the newline terminator.
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding chunk record: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening chunk log: %w", err)
	}

	if err := s.terminatePartialLine(f); err != nil {
		f.Close()
		return err
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("writing chunk log: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing chunk log: %w", err)
	}
	return f.Close()
}

// terminatePartialLine ends a torn trailing line left by an interrupted
// write so the next record starts on its own line.
func (s *ChunkStore) terminatePartialLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat chunk log: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	r, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("opening chunk log: %w", err)
	}
	defer r.Close()

	last := make([]byte, 1)
	if _, err := r.ReadAt(last, info.Size()-1); err != nil {
		return fmt.Errorf("reading chunk log tail: %w", err)
	}
	if last[0] == '\n' {
		return nil
	}

	logger.Warn("chunk log %s has a partial trailing line; it will be ignored", s.path)
	if _, err := f.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("terminating partial line: %w", err)
	}
	return nil
}

// ReadAll returns every complete record in append order.
// Blank lines and lines that are not valid records are skipped.
func (s *ChunkStore) ReadAll(ctx context.Context) ([]domain.ChunkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.ChunkRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening chunk log: %w", err)
	}
	defer f.Close()

	records := []domain.ChunkRecord{}
	reader := bufio.NewReaderSize(f, 64*1024)
	lineNo := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			if len(bytes.TrimSpace(line)) > 0 {
				logger.Debug("skipping partial trailing line in %s", s.path)
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading chunk log: %w", err)
		}
		lineNo++

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var rec domain.ChunkRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Warn("skipping malformed chunk record at %s:%d: %v", s.path, lineNo, err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// readLine returns the next newline-terminated line without the newline.
// A final line with no terminator is returned together with io.EOF.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		part, err := r.ReadSlice('\n')
		line = append(line, part...)
		if len(line) > maxLineSize {
			return nil, fmt.Errorf("line exceeds %d bytes", maxLineSize)
		}
		switch {
		case err == nil:
			return line[:len(line)-1], nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return line, err
		}
	}
}
