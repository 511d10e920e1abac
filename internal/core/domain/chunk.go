package domain

import (
	"slices"
	"strings"
)

// ChunkRecord is a unit of ingested text as stored in the chunk log.
// Records are immutable once appended.
type ChunkRecord struct {
	// DocID identifies the source document (stable per uploaded file).
	DocID string `json:"doc_id"`

	// Text is the chunk body, never blank.
	Text string `json:"text"`

	// Source is human-readable provenance; empty means DocID.
	Source string `json:"source"`

	// SequenceIndex is the zero-based position within the source document.
	// The log stores it under "chunk_id".
	SequenceIndex int `json:"chunk_id"`
}

// Provenance returns Source, falling back to DocID.
func (r ChunkRecord) Provenance() string {
	if strings.TrimSpace(r.Source) != "" {
		return r.Source
	}
	return r.DocID
}

// IsBlank reports whether the record carries no usable text.
func (r ChunkRecord) IsBlank() bool {
	return strings.TrimSpace(r.Text) == ""
}

// ChunkIdentity is the hex-encoded content fingerprint of a (doc_id, text) pair.
type ChunkIdentity string

// String returns the identity as a plain string.
func (id ChunkIdentity) String() string {
	return string(id)
}

// NodeMetadata is the provenance attached to every indexed node.
type NodeMetadata struct {
	DocID   string        `json:"doc_id"`
	ChunkID ChunkIdentity `json:"chunk_id"`
	Source  string        `json:"source"`
}

// Node is a chunk handed to the semantic index for embedding.
type Node struct {
	Text     string       `json:"text"`
	Metadata NodeMetadata `json:"metadata"`
}

// EmbeddedIDSet is the set of identities already committed to the vector index.
// The zero value is not usable; create one with NewEmbeddedIDSet.
type EmbeddedIDSet struct {
	ids map[ChunkIdentity]struct{}
}

// NewEmbeddedIDSet creates a set holding the given identities.
func NewEmbeddedIDSet(ids ...ChunkIdentity) *EmbeddedIDSet {
	s := &EmbeddedIDSet{ids: make(map[ChunkIdentity]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s *EmbeddedIDSet) Has(id ChunkIdentity) bool {
	_, ok := s.ids[id]
	return ok
}

// Add inserts id into the set.
func (s *EmbeddedIDSet) Add(id ChunkIdentity) {
	s.ids[id] = struct{}{}
}

// Len returns the number of identities.
func (s *EmbeddedIDSet) Len() int {
	return len(s.ids)
}

// Union returns a new set holding the identities of s and other.
// Neither input is modified.
func (s *EmbeddedIDSet) Union(other *EmbeddedIDSet) *EmbeddedIDSet {
	out := NewEmbeddedIDSet()
	for id := range s.ids {
		out.ids[id] = struct{}{}
	}
	if other != nil {
		for id := range other.ids {
			out.ids[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the identities in ascending order.
func (s *EmbeddedIDSet) Sorted() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, string(id))
	}
	slices.Sort(out)
	return out
}

// IsSupersetOf reports whether every identity of other is in s.
func (s *EmbeddedIDSet) IsSupersetOf(other *EmbeddedIDSet) bool {
	for id := range other.ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}
