package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
	"github.com/custodia-labs/ragline/internal/logger"
)

// Ensure ChatService implements the interfaces.
var (
	_ driving.ChatService     = (*ChatService)(nil)
	_ driven.PromptStoreAware = (*ChatService)(nil)
)

const answerInstructions = "INSTRUCTIONS:\n" +
	"1) First answer the user directly.\n" +
	"2) If you need details that are missing, ask at most ONE short follow-up question.\n" +
	"3) If the user asked for a rewrite (resume bullet, cover letter, etc.), output the rewritten text.\n\n" +
	"ANSWER:\n"

// ChatService answers questions from retrieved chunks.
type ChatService struct {
	retriever driving.RetrievalService
	llm       driven.LLMService
	prompts   driven.PromptStore
	opts      driven.GenerateOptions
}

// NewChatService creates a new chat service. llm may be nil, in which case
// Answer reports domain.ErrLLMUnavailable after validating the question.
func NewChatService(retriever driving.RetrievalService, llm driven.LLMService) *ChatService {
	return &ChatService{
		retriever: retriever,
		llm:       llm,
	}
}

// SetPromptStore sets the store the system instructions are loaded from.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetGenerateOptions sets the options passed to every completion call.
func (s *ChatService) SetGenerateOptions(opts driven.GenerateOptions) {
	s.opts = opts
}

// Answer retrieves context for question and asks the completion model.
// domain.ErrIndexNotFound from retrieval is returned unchanged. A completion
// failure wraps domain.ErrCapabilityFailure; there is no fallback answer.
func (s *ChatService) Answer(ctx context.Context, question string, topK int) (*domain.AnswerEnvelope, error) {
	hits, err := s.retriever.Retrieve(ctx, question, topK)
	if err != nil {
		return nil, err
	}
	if s.llm == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCapabilityFailure, domain.ErrLLMUnavailable)
	}

	sources := make([]domain.Citation, len(hits))
	for i, h := range hits {
		sources[i] = domain.NewCitation(h)
	}

	prompt := BuildAnswerPrompt(s.systemPrompt(), hits, question)
	logger.Debug("chat: %d hits, prompt %d bytes, model %s", len(hits), len(prompt), s.llm.ModelName())

	answer, err := s.llm.Generate(ctx, prompt, s.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: generate: %w", domain.ErrCapabilityFailure, err)
	}

	return &domain.AnswerEnvelope{
		Question: question,
		TopK:     topK,
		Answer:   strings.TrimSpace(answer),
		Sources:  sources,
	}, nil
}

func (s *ChatService) systemPrompt() string {
	if s.prompts == nil {
		return domain.DefaultAnswerSystem
	}
	p, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil || strings.TrimSpace(p) == "" {
		return domain.DefaultAnswerSystem
	}
	return p
}

// GroundingBlock renders hits as "[<chunk_id>] (doc: <doc_id>)\n<text>",
// separated by blank lines, in retrieval order.
func GroundingBlock(hits []domain.RetrievalHit) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("[%s] (doc: %s)\n%s", h.ChunkID, h.DocID, h.Text)
	}
	return strings.Join(parts, "\n\n")
}

// BuildAnswerPrompt assembles the grounded prompt: system instructions, the
// grounding block, the verbatim question, the numbered instructions, and the
// answer cue.
func BuildAnswerPrompt(system string, hits []domain.RetrievalHit, question string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(system))
	b.WriteString("\n\n")
	b.WriteString("CONTEXT (from the user's uploaded files):\n")
	b.WriteString(GroundingBlock(hits))
	b.WriteString("\n\n")
	b.WriteString("USER MESSAGE:\n")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(answerInstructions)
	return b.String()
}
