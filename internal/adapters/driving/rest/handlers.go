package rest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

func (s *Server) upload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: multipart field \"file\" is required", domain.ErrInvalidInput)
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	res, err := s.ports.Ingest.Ingest(c.Context(), fh.Filename, data)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (s *Server) index(c fiber.Ctx) error {
	stats, err := s.ports.Index.Index(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (s *Server) retrieve(c fiber.Ctx) error {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: query parameter \"q\" is required", domain.ErrInvalidInput)
	}

	topK := domain.DefaultTopK
	if raw := c.Query("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: top_k must be an integer", domain.ErrInvalidInput)
		}
		topK = n
	}

	hits, err := s.ports.Retrieval.Retrieve(c.Context(), query, topK)
	if err != nil {
		return err
	}
	if hits == nil {
		hits = []domain.RetrievalHit{}
	}
	return c.JSON(domain.RetrievalResponse{Query: query, TopK: topK, Hits: hits})
}

type chatRequest struct {
	Question string `json:"question"`
	// Message is accepted as an alias for Question.
	Message string `json:"message"`
	TopK    *int   `json:"top_k"`
}

func (s *Server) chat(c fiber.Ctx) error {
	var req chatRequest
	if err := c.Bind().JSON(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = strings.TrimSpace(req.Message)
	}
	topK := domain.DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	// A blank question gets an empty answer rather than an error.
	if question == "" {
		return c.JSON(domain.AnswerEnvelope{TopK: topK, Sources: []domain.Citation{}})
	}

	env, err := s.ports.Chat.Answer(c.Context(), question, topK)
	if err != nil {
		return err
	}
	return c.JSON(env)
}

func (s *Server) knownIDs(c fiber.Ctx) error {
	ids, err := s.ports.Index.KnownIDs(c.Context())
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(fiber.Map{"count": len(ids), "ids": ids})
}
