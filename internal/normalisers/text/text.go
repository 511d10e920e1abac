// Package text canonicalises extracted text before chunking.
package text

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

var (
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// Normalise converts all line endings to "\n", collapses every run of three
// or more newlines to exactly two, and trims surrounding whitespace.
func Normalise(raw string) string {
	s := lineEndings.Replace(raw)
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// NormaliseExtracted normalises raw and reports domain.ErrExtractionEmpty
// when nothing usable remains.
func NormaliseExtracted(raw string) (string, error) {
	s := Normalise(raw)
	if s == "" {
		return "", domain.ErrExtractionEmpty
	}
	return s, nil
}
