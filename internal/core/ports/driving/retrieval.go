package driving

import (
	"context"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

// RetrievalService runs similarity queries against the index.
type RetrievalService interface {
	// Retrieve returns up to topK hits, most relevant first.
	// Returns domain.ErrIndexNotFound when nothing has been indexed yet.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievalHit, error)
}

// ChatService answers questions grounded in retrieved chunks.
type ChatService interface {
	// Answer retrieves context for question and asks the completion model.
	Answer(ctx context.Context, question string, topK int) (*domain.AnswerEnvelope, error)
}
