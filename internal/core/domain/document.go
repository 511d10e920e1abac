package domain

// Document is the normalised text of one uploaded file.
// It is the input to chunking post-processors.
type Document struct {
	// ID identifies the source document. For uploads this is the saved path,
	// including any disambiguating suffix.
	ID string

	// Source is human-readable provenance. Defaults to ID when empty.
	Source string

	// Content is the full normalised text.
	Content string
}

// Chunk is one bounded span of a Document emitted by a post-processor.
type Chunk struct {
	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the chunk text, never blank.
	Content string

	// Position is the zero-based ordinal within the document.
	Position int

	// SeedLength is the number of leading characters carried over from the
	// previous chunk as overlap, separator included. Zero for the first chunk.
	SeedLength int
}

// Body returns the chunk content without its overlap seed.
func (c Chunk) Body() string {
	if c.SeedLength <= 0 {
		return c.Content
	}
	runes := []rune(c.Content)
	if c.SeedLength >= len(runes) {
		return ""
	}
	return string(runes[c.SeedLength:])
}
