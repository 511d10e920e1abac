// Package ai provides factory functions for creating model and vector
// index adapters from settings.
package ai

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	geminiembed "github.com/custodia-labs/ragline/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/ragline/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragline/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/ragline/internal/adapters/driven/embedding/ratelimit"
	anthropicllm "github.com/custodia-labs/ragline/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/ragline/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/ragline/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ragline/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ragline/internal/adapters/driven/storage/bolt"
	"github.com/custodia-labs/ragline/internal/adapters/driven/storage/chroma"
	"github.com/custodia-labs/ragline/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragline/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/ragline/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// ValidateEmbeddingConfig creates an embedding service and pings it.
// An unconfigured provider is not an error.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateEmbeddingService(context.Background(), settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig creates a completion service and pings it.
// An unconfigured provider is not an error.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateLLMService(context.Background(), settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the embedding service for settings, rate
// limited when RequestsPerSecond is set.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrInvalidInput)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrInvalidInput, settings.Provider)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
	case domain.AIProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
	case domain.AIProviderGemini:
		svc, err = geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return ratelimit.Wrap(svc, settings.RequestsPerSecond), nil
}

// CreateLLMService creates the completion service for settings.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no completion settings", domain.ErrInvalidInput)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: completion provider %q is not configured", domain.ErrInvalidInput, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateVectorIndex opens the configured backend. Local backends store
// their files under indexDir.
func CreateVectorIndex(ctx context.Context, settings *domain.VectorIndexSettings, indexDir string) (driven.VectorIndex, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no vector index settings", domain.ErrInvalidInput)
	}

	var (
		idx driven.VectorIndex
		err error
	)
	switch settings.Backend {
	case domain.VectorBackendSQLite, "":
		idx, err = sqlite.NewStore(indexDir)
	case domain.VectorBackendBolt:
		idx, err = bolt.NewIndex(indexDir)
	case domain.VectorBackendMemory:
		idx = memory.NewVectorIndex()
	case domain.VectorBackendPostgres:
		if settings.DSN == "" {
			return nil, fmt.Errorf("%w: postgres backend needs vector_index.dsn", domain.ErrInvalidInput)
		}
		idx, err = postgres.NewIndex(ctx, settings.DSN, settings.Collection, settings.Dimensions)
	case domain.VectorBackendChroma:
		idx, err = chroma.NewIndex(ctx, settings.URL, settings.Collection)
	default:
		return nil, fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidInput, settings.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrVectorIndexUnavailable, settings.Backend, err)
	}
	return idx, nil
}

// IndexDir returns the directory local vector backends use.
func IndexDir(dataDir string) string {
	return filepath.Join(dataDir, "storage", "index")
}
