package tui

import (
	"context"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

type mockChat struct {
	answerFunc func(ctx context.Context, q string, topK int) (*domain.AnswerEnvelope, error)
}

func (m *mockChat) Answer(ctx context.Context, q string, topK int) (*domain.AnswerEnvelope, error) {
	if m.answerFunc != nil {
		return m.answerFunc(ctx, q, topK)
	}
	return &domain.AnswerEnvelope{Question: q, TopK: topK, Answer: "ok"}, nil
}

type mockRetrieval struct {
	retrieveFunc func(ctx context.Context, q string, topK int) ([]domain.RetrievalHit, error)
}

func (m *mockRetrieval) Retrieve(ctx context.Context, q string, topK int) ([]domain.RetrievalHit, error) {
	if m.retrieveFunc != nil {
		return m.retrieveFunc(ctx, q, topK)
	}
	return nil, nil
}

type mockIndex struct {
	indexFunc func(ctx context.Context) (*domain.IndexStats, error)
	calls     int
}

func (m *mockIndex) Index(ctx context.Context) (*domain.IndexStats, error) {
	m.calls++
	if m.indexFunc != nil {
		return m.indexFunc(ctx)
	}
	return &domain.IndexStats{Message: domain.MessageNothingToEmbed}, nil
}

func (m *mockIndex) KnownIDs(context.Context) ([]string, error) {
	return nil, nil
}
