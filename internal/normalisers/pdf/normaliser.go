// Package pdf extracts text from PDF uploads using UniPDF.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// License registration is process-wide and happens at most once.
var (
	licenseOnce sync.Once
	licenseErr  error
	setLicense  = license.SetMeteredKey
)

// Extractor pulls text from every page of a PDF.
type Extractor struct {
	licenseErr error
}

// New creates a PDF extractor. A non-empty licenseKey is registered with
// UniPDF once per process; later keys are ignored. If that registration was
// rejected, every extractor built with a key fails Extract with the same error.
func New(licenseKey string) *Extractor {
	if licenseKey == "" {
		return &Extractor{}
	}
	licenseOnce.Do(func() {
		licenseErr = setLicense(licenseKey)
		if licenseErr != nil {
			logger.Warn("unipdf license rejected: %v", licenseErr)
		}
	})
	return &Extractor{licenseErr: licenseErr}
}

// Kinds returns the file kinds this extractor handles.
func (e *Extractor) Kinds() []domain.FileKind {
	return []domain.FileKind{domain.FileKindPDF}
}

// Extract returns the text of every page joined by a newline. Pages that
// fail to extract contribute nothing. An unreadable document is an error.
func (e *Extractor) Extract(ctx context.Context, data []byte, _ domain.FileKind) (string, error) {
	if e.licenseErr != nil {
		return "", fmt.Errorf("unipdf license: %w", e.licenseErr)
	}
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("count pages: %w", err)
	}

	parts := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		parts = append(parts, pageText(reader, i))
	}

	return strings.Join(parts, "\n"), nil
}

// pageText extracts one page, returning "" on failure.
func pageText(reader *model.PdfReader, num int) string {
	page, err := reader.GetPage(num)
	if err != nil {
		logger.Debug("pdf page %d: %v", num, err)
		return ""
	}

	ex, err := extractor.New(page)
	if err != nil {
		logger.Debug("pdf page %d: %v", num, err)
		return ""
	}

	text, err := ex.ExtractText()
	if err != nil {
		logger.Debug("pdf page %d: %v", num, err)
		return ""
	}
	return text
}
