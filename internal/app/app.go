// Package app wires adapters and services into a running pipeline.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ragline/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragline/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragline/internal/adapters/driven/semantic"
	storagefile "github.com/custodia-labs/ragline/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/ragline/internal/adapters/driven/storage/jsonl"
	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/core/services"
	"github.com/custodia-labs/ragline/internal/logger"
	"github.com/custodia-labs/ragline/internal/normalisers"
	"github.com/custodia-labs/ragline/internal/normalisers/pdf"
	"github.com/custodia-labs/ragline/internal/normalisers/plaintext"
	"github.com/custodia-labs/ragline/internal/postprocessors"
)

// Layout under the data directory.
const (
	UploadsDirName = "uploads"
	StorageDirName = "storage"
	PromptsDirName = "prompts"
)

// App holds the services of one process.
type App struct {
	Settings        *domain.AppSettings
	SettingsService *services.SettingsService
	Ingest          *services.IngestService
	Index           *services.IndexService
	Retrieval       *services.RetrievalService
	Chat            *services.ChatService

	// Warnings lists capabilities that could not be built. The pipeline
	// still runs; calls needing them fail with domain.ErrCapabilityFailure.
	Warnings []string

	closers []func() error
}

// LoadEnv loads .env from the working directory and from dataDir. Existing
// environment variables win; missing files are ignored.
func LoadEnv(dataDir string) {
	for _, path := range []string{".env", filepath.Join(dataDir, ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warn("load %s: %v", path, err)
		}
	}
}

// ResolveDataDir returns dir, RAGLINE_DATA_DIR, or ~/.ragline, in that order.
func ResolveDataDir(dir string) string {
	if dir != "" {
		return dir
	}
	if env := os.Getenv("RAGLINE_DATA_DIR"); env != "" {
		return env
	}
	return services.DefaultDataDir()
}

// NewSettingsService opens the config file under dataDir.
func NewSettingsService(dataDir string) (*services.SettingsService, error) {
	store, err := file.NewConfigStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return services.NewSettingsService(store, ai.NewConfigValidator(), services.WithDataDir(dataDir)), nil
}

// New builds every service from the settings resolved for dataDir.
//
// Local stores failing to open is an error. Embedding, vector index, and
// completion failures are recorded in Warnings so ingestion keeps working
// while a provider is down or unconfigured.
func New(ctx context.Context, dataDir string) (*App, error) {
	dataDir = ResolveDataDir(dataDir)
	LoadEnv(dataDir)

	settingsSvc, err := NewSettingsService(dataDir)
	if err != nil {
		return nil, err
	}
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}

	a := &App{Settings: settings, SettingsService: settingsSvc}
	if err := a.build(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	s := a.Settings
	storageDir := filepath.Join(s.DataDir, StorageDirName)

	chunks, err := jsonl.NewChunkStore(filepath.Join(storageDir, jsonl.DefaultFileName))
	if err != nil {
		return err
	}
	known, err := storagefile.NewKnownIDStore(filepath.Join(storageDir, storagefile.DefaultKnownIDsFileName))
	if err != nil {
		return err
	}
	uploads, err := storagefile.NewUploadStore(filepath.Join(s.DataDir, UploadsDirName))
	if err != nil {
		return err
	}

	extractors := normalisers.NewRegistry(plaintext.New(), pdf.New(s.Extraction.PDFLicenseKey))

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.NewChunkingPipeline(registry, s.Chunking)
	if err != nil {
		return err
	}

	var index driven.SemanticIndex
	if sem, err := a.buildSemanticIndex(ctx); err != nil {
		a.warn("semantic index unavailable: %v", err)
	} else {
		index = sem
	}

	var llm driven.LLMService
	if svc, err := ai.CreateLLMService(ctx, &s.LLM); err != nil {
		a.warn("%v: %v", domain.ErrLLMUnavailable, err)
	} else {
		llm = svc
		a.closers = append(a.closers, svc.Close)
	}

	a.Index = services.NewIndexService(chunks, known, index)
	a.Retrieval = services.NewRetrievalService(index)
	a.Chat = services.NewChatService(a.Retrieval, llm)

	prompts, err := file.NewPromptStore(filepath.Join(s.DataDir, PromptsDirName))
	if err != nil {
		a.warn("prompt store unavailable: %v", err)
	} else {
		a.Chat.SetPromptStore(prompts)
	}

	var opts []services.IngestOption
	if s.Ingest.AutoIndex {
		opts = append(opts, services.WithAutoIndex(a.Index))
	}
	a.Ingest = services.NewIngestService(uploads, extractors, pipeline, chunks, opts...)
	return nil
}

func (a *App) buildSemanticIndex(ctx context.Context) (*semantic.Index, error) {
	s := a.Settings

	embedder, err := ai.CreateEmbeddingService(ctx, &s.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	vectors, err := ai.CreateVectorIndex(ctx, &s.VectorIndex, ai.IndexDir(s.DataDir))
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	sem := semantic.New(embedder, vectors)
	a.closers = append(a.closers, sem.Close)
	return sem, nil
}

func (a *App) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.Warnings = append(a.Warnings, msg)
	logger.Warn("%s", msg)
}

// Close releases every resource in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
