// Package chunker provides the paragraph-packing chunker.
//
// Paragraphs (separated by a blank line) are packed greedily into chunks of
// at most MaxChars characters. When a paragraph does not fit, the current
// chunk is closed and the next one starts with the trailing Overlap
// characters of the closed chunk, a paragraph break, and the paragraph.
//
// Every emitted chunk is at most MaxChars+Overlap characters long. The
// overlap seed is shortened when a full-length seed would break that bound.
// A paragraph longer than MaxChars is never seeded or split; it is emitted as
// a chunk equal to the paragraph exactly. Lengths count runes, not bytes.
//
// An Overlap not below MaxChars is replaced by MaxChars/4.
package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.PostProcessor = (*Processor)(nil)

// DefaultMaxChars is the default maximum chunk size in characters.
const DefaultMaxChars = 1200

// DefaultOverlap is the default number of characters carried into the next chunk.
const DefaultOverlap = 200

// separator is the paragraph break used both to split and to join.
const separator = "\n\n"

var separatorRunes = []rune(separator)

// Processor packs paragraphs into overlapping chunks.
type Processor struct {
	maxChars int
	overlap  int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxChars sets the maximum chunk size in characters.
func WithMaxChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChars = n
		}
	}
}

// WithOverlap sets the overlap between chunks in characters. Zero disables it.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxChars: DefaultMaxChars,
		overlap:  DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must stay below MaxChars.
	if p.overlap >= p.maxChars {
		p.overlap = p.maxChars / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return string(domain.ChunkStrategyParagraph)
}

// MaxChars returns the configured maximum chunk size.
func (p *Processor) MaxChars() int {
	return p.maxChars
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	chunks := p.Split(doc.Content)
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
	}
	return chunks, nil
}

// Split chunks text. The returned chunks carry Content, Position, and SeedLength.
func (p *Processor) Split(text string) []domain.Chunk {
	paragraphs := Paragraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var (
		chunks  []domain.Chunk
		current []rune
		seedLen int
	)

	emit := func() {
		chunks = append(chunks, domain.Chunk{
			Content:    string(current),
			Position:   len(chunks),
			SeedLength: seedLen,
		})
	}

	for _, para := range paragraphs {
		next := []rune(para)

		if len(current) == 0 {
			current, seedLen = next, 0
			continue
		}

		if len(current)+len(separatorRunes)+len(next) <= p.maxChars {
			current = join(current, next)
			continue
		}

		emit()

		tail := p.seed(current, len(next))
		if len(tail) == 0 {
			current, seedLen = next, 0
			continue
		}
		current = join(tail, next)
		seedLen = len(tail) + len(separatorRunes)
	}

	if len(current) > 0 {
		emit()
	}

	return chunks
}

// seed returns the tail of closed that starts the next chunk, given the
// length of the paragraph that will follow it.
func (p *Processor) seed(closed []rune, nextLen int) []rune {
	if p.overlap == 0 || nextLen > p.maxChars {
		return nil
	}
	n := min(p.overlap, len(closed), p.maxChars+p.overlap-len(separatorRunes)-nextLen)
	if n <= 0 {
		return nil
	}
	return closed[len(closed)-n:]
}

// join returns a fresh slice holding a, the separator, and b.
func join(a, b []rune) []rune {
	out := make([]rune, 0, len(a)+len(separatorRunes)+len(b))
	out = append(out, a...)
	out = append(out, separatorRunes...)
	return append(out, b...)
}

// Paragraphs splits text on blank lines and returns the trimmed,
// non-empty paragraphs in order.
func Paragraphs(text string) []string {
	raw := strings.Split(text, separator)
	out := make([]string, 0, len(raw))
	for _, para := range raw {
		if trimmed := strings.TrimSpace(para); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
