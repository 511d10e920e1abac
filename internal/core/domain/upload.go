package domain

import (
	"path/filepath"
	"strings"
)

// FileKind identifies how an uploaded file's bytes are turned into text.
type FileKind string

// Supported file kinds.
const (
	FileKindPlain FileKind = "plain"
	FileKindPDF   FileKind = "pdf"
)

// String returns the string representation.
func (k FileKind) String() string {
	return string(k)
}

// FileKindForName maps a file name to its kind by extension (case-insensitive).
// Returns ErrUnsupportedFileType for anything other than .txt and .pdf.
func FileKindForName(name string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return FileKindPlain, nil
	case ".pdf":
		return FileKindPDF, nil
	default:
		return "", ErrUnsupportedFileType
	}
}

// UploadResult is returned by a successful ingest.
type UploadResult struct {
	// Saved reports that the file was stored.
	Saved bool `json:"saved"`

	// Filename is the base name actually used, including any disambiguator.
	Filename string `json:"filename"`

	// Path is the stored location, which is also the document id.
	Path string `json:"path"`

	// ChunksAdded is the number of records appended to the chunk log.
	ChunksAdded int `json:"chunks_added"`

	// Indexed reports whether an automatic index run completed.
	Indexed bool `json:"indexed"`

	// EmbeddedNow is the embedded_now count of the automatic index run.
	EmbeddedNow int `json:"embedded_now"`

	// Message describes the indexing outcome.
	Message string `json:"message,omitempty"`
}
