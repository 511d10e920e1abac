package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

// identitySeparator joins document id and text before hashing.
const identitySeparator = "||"

// ComputeIdentity returns the content identity of a chunk: the lowercase hex
// SHA-256 of the trimmed document id, "||", and the trimmed text.
func ComputeIdentity(docID, text string) domain.ChunkIdentity {
	sum := sha256.Sum256([]byte(strings.TrimSpace(docID) + identitySeparator + strings.TrimSpace(text)))
	return domain.ChunkIdentity(hex.EncodeToString(sum[:]))
}

func provenance(source, docID string) string {
	if s := strings.TrimSpace(source); s != "" {
		return s
	}
	return docID
}

// SelectNew scans records in order and returns a node for every identity not
// in known. Node text and document id are trimmed. Blank records are counted as read and otherwise ignored; an
// identity seen earlier in the same scan counts as skipped.
func SelectNew(records []domain.ChunkRecord, known *domain.EmbeddedIDSet) ([]domain.Node, *domain.EmbeddedIDSet, domain.ScanStats) {
	if known == nil {
		known = domain.NewEmbeddedIDSet()
	}

	var (
		stats  domain.ScanStats
		nodes  []domain.Node
		newIDs = domain.NewEmbeddedIDSet()
	)

	for _, rec := range records {
		stats.TotalRead++
		if rec.IsBlank() {
			continue
		}

		docID := strings.TrimSpace(rec.DocID)
		text := strings.TrimSpace(rec.Text)
		id := ComputeIdentity(docID, text)
		if known.Has(id) || newIDs.Has(id) {
			stats.Skipped++
			continue
		}

		newIDs.Add(id)
		nodes = append(nodes, domain.Node{
			Text: text,
			Metadata: domain.NodeMetadata{
				DocID:   docID,
				ChunkID: id,
				Source:  provenance(rec.Source, docID),
			},
		})
	}

	stats.NewFound = len(nodes)
	return nodes, newIDs, stats
}
