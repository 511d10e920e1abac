package mcp

import (
	"context"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	hits    []domain.RetrievalHit
	err     error
	gotTopK int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, topK int) ([]domain.RetrievalHit, error) {
	m.gotTopK = topK
	return m.hits, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	env     *domain.AnswerEnvelope
	err     error
	gotTopK int
}

func (m *mockChatService) Answer(_ context.Context, _ string, topK int) (*domain.AnswerEnvelope, error) {
	m.gotTopK = topK
	return m.env, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	stats *domain.IndexStats
	ids   []string
	err   error
}

func (m *mockIndexService) Index(_ context.Context) (*domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) KnownIDs(_ context.Context) ([]string, error) {
	return m.ids, m.err
}

// Verify interface compliance.
var (
	_ driving.RetrievalService = (*mockRetrievalService)(nil)
	_ driving.ChatService      = (*mockChatService)(nil)
	_ driving.IndexService     = (*mockIndexService)(nil)
)
