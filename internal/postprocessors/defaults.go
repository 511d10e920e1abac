package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/logger"
	"github.com/custodia-labs/ragline/internal/postprocessors/chunker"
	"github.com/custodia-labs/ragline/internal/postprocessors/compact"
	"github.com/custodia-labs/ragline/internal/postprocessors/recursive"
)

// Config keys understood by the chunking builders.
const (
	KeyMaxChars = "max_chars"
	KeyOverlap  = "overlap"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(string(domain.ChunkStrategyParagraph), buildParagraph)
	r.Register(string(domain.ChunkStrategyRecursive), buildRecursive)
	r.Register(compact.Name, buildCompact)
}

// NewChunkingPipeline builds the pipeline for the configured strategy:
// the splitter followed by the compact refiner. An overlap not below
// max_chars is replaced by max_chars/4 with a warning.
func NewChunkingPipeline(r *Registry, settings domain.ChunkingSettings) (*Pipeline, error) {
	strategy := settings.Strategy
	if strategy == "" {
		strategy = domain.ChunkStrategyParagraph
	}

	maxChars := settings.MaxChars
	if maxChars <= 0 {
		maxChars = chunker.DefaultMaxChars
	}
	if settings.Overlap >= maxChars {
		logger.Warn("chunking.overlap %d is not below chunking.max_chars %d, using %d",
			settings.Overlap, maxChars, maxChars/4)
	}

	cfg := map[string]any{
		KeyMaxChars: settings.MaxChars,
		KeyOverlap:  settings.Overlap,
	}

	splitter, err := r.Build(string(strategy), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: chunking strategy %q", domain.ErrInvalidInput, strategy)
	}
	refiner, err := r.Build(compact.Name, nil)
	if err != nil {
		return nil, err
	}

	return NewPipeline(splitter, refiner), nil
}

// buildParagraph creates the paragraph chunker from generic config.
// Supported config keys:
//   - max_chars (int): maximum characters per chunk (default: 1200)
//   - overlap (int): characters carried into the next chunk (default: 200)
func buildParagraph(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size, ok := getIntFromConfig(cfg, KeyMaxChars); ok && size > 0 {
		opts = append(opts, chunker.WithMaxChars(size))
	}
	if overlap, ok := getIntFromConfig(cfg, KeyOverlap); ok && overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	return chunker.New(opts...), nil
}

// buildRecursive creates the recursive character splitter from generic config.
// It accepts the same keys as the paragraph chunker.
func buildRecursive(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []recursive.Option

	if size, ok := getIntFromConfig(cfg, KeyMaxChars); ok && size > 0 {
		opts = append(opts, recursive.WithMaxChars(size))
	}
	if overlap, ok := getIntFromConfig(cfg, KeyOverlap); ok && overlap >= 0 {
		opts = append(opts, recursive.WithOverlap(overlap))
	}

	return recursive.New(opts...), nil
}

func buildCompact(_ map[string]any) (driven.PostProcessor, error) {
	return compact.New(), nil
}

// getIntFromConfig extracts an int from a generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	if cfg == nil {
		return 0, false
	}
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
