// Package watch ingests files dropped into a directory.
//
// Create and Write events for .txt and .pdf files are debounced per path, so
// an editor or copy that writes a file in several steps is ingested once,
// after the last write settles. Ingests run one at a time.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
	"github.com/custodia-labs/ragline/internal/logger"
)

// DefaultDebounce is the quiet period after the last event for a path.
const DefaultDebounce = 500 * time.Millisecond

// ResultHandler is called after each ingest attempt.
type ResultHandler func(path string, res *domain.UploadResult, err error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the per-file quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithResultHandler registers fn to observe ingest outcomes.
func WithResultHandler(fn ResultHandler) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// Watcher ingests files created or modified in one directory.
type Watcher struct {
	dir      string
	ingest   driving.IngestService
	debounce time.Duration
	onResult ResultHandler

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher for dir.
func New(dir string, ingest driving.IngestService, opts ...Option) *Watcher {
	w := &Watcher{
		dir:      dir,
		ingest:   ingest,
		debounce: DefaultDebounce,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Returns an error only if the watch
// cannot be started.
func (w *Watcher) Run(ctx context.Context) error {
	if w.ingest == nil {
		return errors.New("ingest service required")
	}
	info, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch dir: %s is not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching %s", w.dir)

	ready := make(chan string, 16)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !Accepts(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name, ready)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)

		case path := <-ready:
			w.process(ctx, path)
		}
	}
}

// Accepts reports whether the watcher ingests path. Hidden files are
// skipped since editors use them for swap and temp files.
func Accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, err := domain.FileKindForName(base)
	return err == nil
}

// schedule (re)starts the quiet period for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Removed or renamed before the quiet period ended.
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("watcher: %s disappeared", path)
			return
		}
		w.report(path, nil, fmt.Errorf("read %s: %w", path, err))
		return
	}
	if len(data) == 0 {
		logger.Debug("watcher: %s is empty, waiting for content", path)
		return
	}

	res, err := w.ingest.Ingest(ctx, filepath.Base(path), data)
	w.report(path, res, err)
}

func (w *Watcher) report(path string, res *domain.UploadResult, err error) {
	if err != nil {
		logger.Warn("watcher: ingest %s: %v", path, err)
	} else {
		logger.Info("watcher: ingested %s as %s (%d chunks)", path, res.Filename, res.ChunksAdded)
	}
	if w.onResult != nil {
		w.onResult(path, res, err)
	}
}
