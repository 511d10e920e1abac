// Package plaintext extracts text from plain-text uploads.
package plaintext

import (
	"bytes"
	"context"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// utf8BOM is stripped from the start of files saved by some editors.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor decodes plain-text uploads as UTF-8.
type Extractor struct{}

// New creates a new plain-text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Kinds returns the file kinds this extractor handles.
func (e *Extractor) Kinds() []domain.FileKind {
	return []domain.FileKind{domain.FileKindPlain}
}

// Extract returns data as text. Invalid UTF-8 sequences are dropped.
func (e *Extractor) Extract(_ context.Context, data []byte, _ domain.FileKind) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	return strings.ToValidUTF8(string(data), ""), nil
}
