// Package ratelimit wraps an embedding service with a request rate limit.
//
// Hosted embedding APIs reject bursts; indexing a large upload otherwise
// fails part-way with 429s.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService delegates to another service, waiting for a token
// before every request. A batch costs one token.
type EmbeddingService struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// Wrap limits next to rps requests per second with a burst of one.
// A non-positive rps returns next unchanged.
func Wrap(next driven.EmbeddingService, rps float64) driven.EmbeddingService {
	if rps <= 0 {
		return next
	}
	return &EmbeddingService{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (s *EmbeddingService) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// Embed waits for a token then embeds text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.next.Embed(ctx, text)
}

// EmbedBatch waits for a token then embeds texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.next.EmbedBatch(ctx, texts)
}

// Dimensions delegates.
func (s *EmbeddingService) Dimensions() int { return s.next.Dimensions() }

// ModelName delegates.
func (s *EmbeddingService) ModelName() string { return s.next.ModelName() }

// Ping delegates without consuming a token.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.next.Ping(ctx) }

// Close delegates.
func (s *EmbeddingService) Close() error { return s.next.Close() }
