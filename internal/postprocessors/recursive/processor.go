// Package recursive wraps the langchaingo recursive character splitter.
//
// It is an alternative to the paragraph chunker for documents without
// reliable blank-line structure, such as text extracted from PDFs.
package recursive

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

var _ driven.PostProcessor = (*Processor)(nil)

// DefaultSeparators are tried in order, coarsest first.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Processor splits text with langchaingo's RecursiveCharacter splitter.
type Processor struct {
	maxChars   int
	overlap    int
	separators []string
}

// Option configures the recursive processor.
type Option func(*Processor)

// WithMaxChars sets the target chunk size.
func WithMaxChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChars = n
		}
	}
}

// WithOverlap sets the chunk overlap.
func WithOverlap(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlap = n
		}
	}
}

// WithSeparators overrides the separator list.
func WithSeparators(seps ...string) Option {
	return func(p *Processor) {
		if len(seps) > 0 {
			p.separators = seps
		}
	}
}

// New creates a recursive processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxChars:   1200,
		overlap:    200,
		separators: DefaultSeparators,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.overlap >= p.maxChars {
		p.overlap = p.maxChars / 4
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return string(domain.ChunkStrategyRecursive)
}

// Process splits the document content. Input chunks are ignored.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	if doc.Content == "" {
		return nil, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(p.maxChars),
		textsplitter.WithChunkOverlap(p.overlap),
		textsplitter.WithSeparators(p.separators),
	)

	parts, err := splitter.SplitText(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	chunks := make([]domain.Chunk, 0, len(parts))
	for _, part := range parts {
		chunks = append(chunks, domain.Chunk{
			DocumentID: doc.ID,
			Content:    part,
			Position:   len(chunks),
		})
	}
	return chunks, nil
}
