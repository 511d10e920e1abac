package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the text to find similar chunks for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of chunks to return, 1 to 20 (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Query string      `json:"query"`
	TopK  int         `json:"top_k"`
	Hits  []HitOutput `json:"hits"`
}

// HitOutput is one retrieved chunk.
type HitOutput struct {
	DocID   string  `json:"doc_id"`
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
}

// ChatInput is the input schema for the chat tool.
type ChatInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed files"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of chunks to ground on, 1 to 20 (default 5)"`
}

// ChatOutput is the output schema for the chat tool.
type ChatOutput struct {
	Answer  string           `json:"answer"`
	Sources []CitationOutput `json:"sources"`
}

// CitationOutput is one source used for an answer.
type CitationOutput struct {
	DocID   string  `json:"doc_id"`
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// IndexInput is the (empty) input schema for the index tool.
type IndexInput struct{}

// IndexOutput is the output schema for the index tool.
type IndexOutput struct {
	TotalRead   int    `json:"total_read"`
	Skipped     int    `json:"skipped"`
	NewFound    int    `json:"new_found"`
	EmbeddedNow int    `json:"embedded_now"`
	Message     string `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the chunks of the user's uploaded files most similar to a query",
	}, s.handleRetrieve)

	if s.ports.Chat != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "chat",
			Description: "Answer a question using only the user's uploaded files as context",
		}, s.handleChat)
	}

	if s.ports.Index != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "index",
			Description: "Embed chunks that have not been indexed yet",
		}, s.handleIndex)
	}
}

func topKOrDefault(k int) int {
	if k == 0 {
		return domain.DefaultTopK
	}
	return k
}

func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	topK := topKOrDefault(input.TopK)

	hits, err := s.ports.Retrieval.Retrieve(ctx, input.Query, topK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Query: input.Query,
		TopK:  topK,
		Hits:  make([]HitOutput, len(hits)),
	}
	for i := range hits {
		output.Hits[i] = HitOutput{
			DocID:   hits[i].DocID,
			ChunkID: hits[i].ChunkID.String(),
			Score:   hits[i].Score,
			Text:    hits[i].Text,
		}
	}

	return nil, output, nil
}

func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	if s.ports.Chat == nil {
		return nil, ChatOutput{}, fmt.Errorf("%w: chat", ErrToolUnavailable)
	}

	env, err := s.ports.Chat.Answer(ctx, input.Question, topKOrDefault(input.TopK))
	if err != nil {
		return nil, ChatOutput{}, err
	}

	output := ChatOutput{
		Answer:  env.Answer,
		Sources: make([]CitationOutput, len(env.Sources)),
	}
	for i, src := range env.Sources {
		output.Sources[i] = CitationOutput{
			DocID:   src.DocID,
			ChunkID: src.ChunkID.String(),
			Score:   src.Score,
			Snippet: src.Snippet,
		}
	}

	return nil, output, nil
}

func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	if s.ports.Index == nil {
		return nil, IndexOutput{}, fmt.Errorf("%w: index", ErrToolUnavailable)
	}

	stats, err := s.ports.Index.Index(ctx)
	if err != nil {
		return nil, IndexOutput{}, err
	}

	return nil, IndexOutput{
		TotalRead:   stats.TotalRead,
		Skipped:     stats.Skipped,
		NewFound:    stats.NewFound,
		EmbeddedNow: stats.EmbeddedNow,
		Message:     stats.Message,
	}, nil
}
