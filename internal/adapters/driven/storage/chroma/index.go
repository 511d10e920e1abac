// Package chroma provides a Chroma-backed implementation of driven.VectorIndex.
//
// Embeddings are computed by ragline and handed to Chroma explicitly; the
// collection is created in cosine space so a hit's score is 1 - distance.
package chroma

import (
	"context"
	"encoding/json"
	"fmt"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
	"github.com/custodia-labs/ragline/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Metadata keys stored on every Chroma document.
const (
	metaDocID   = "doc_id"
	metaChunkID = "chunk_id"
	metaSource  = "source"
)

// Index wraps a Chroma collection.
type Index struct {
	client     chromago.Client
	collection chromago.Collection
}

// NewIndex connects to the Chroma server at url (empty for the client
// default) and gets or creates the named collection.
func NewIndex(ctx context.Context, url, collectionName string) (*Index, error) {
	var opts []chromago.ClientOption
	if url != "" {
		opts = append(opts, chromago.WithBaseURL(url))
	}

	client, err := chromago.NewHTTPClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(
		ctx,
		collectionName,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(
				chromago.NewStringAttribute("hnsw:space", "cosine"),
				chromago.NewStringAttribute("created_by", "ragline"),
			),
		),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("getting collection %s: %w", collectionName, err)
	}

	return &Index{client: client, collection: collection}, nil
}

// Upsert adds or replaces documents keyed by chunk identity.
func (i *Index) Upsert(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]chromago.DocumentID, len(records))
	texts := make([]string, len(records))
	vectors := make([]embeddings.Embedding, len(records))
	metas := make([]chromago.DocumentMetadata, len(records))

	for n, r := range records {
		meta := r.Node.Metadata
		ids[n] = chromago.DocumentID(meta.ChunkID)
		texts[n] = r.Node.Text
		vectors[n] = embeddings.NewEmbeddingFromFloat32(r.Embedding)
		metas[n] = chromago.NewDocumentMetadata(
			chromago.NewStringAttribute(metaDocID, meta.DocID),
			chromago.NewStringAttribute(metaChunkID, string(meta.ChunkID)),
			chromago.NewStringAttribute(metaSource, meta.Source),
		)
	}

	err := i.collection.Upsert(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(vectors...),
		chromago.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("upserting to chroma: %w", err)
	}
	return nil
}

// Search queries the collection with the given embedding.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	results, err := i.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(query)),
		chromago.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("querying chroma: %w", err)
	}

	documentGroups := results.GetDocumentsGroups()
	if len(documentGroups) == 0 {
		return nil, nil
	}
	metadataGroups := results.GetMetadatasGroups()
	distanceGroups := results.GetDistancesGroups()

	var hits []driven.VectorHit
	for n, doc := range documentGroups[0] {
		node := domain.Node{Text: doc.ContentString()}
		if len(metadataGroups) > 0 && n < len(metadataGroups[0]) {
			node.Metadata = decodeMetadata(metadataGroups[0][n])
		}

		hit := driven.VectorHit{Node: node}
		if len(distanceGroups) > 0 && n < len(distanceGroups[0]) {
			score := 1 - float64(distanceGroups[0][n])
			hit.Score = &score
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// decodeMetadata converts Chroma document metadata to node metadata.
// DocumentMetadata exposes no typed getters for arbitrary keys, so it goes
// through a JSON round trip.
func decodeMetadata(metadata chromago.DocumentMetadata) domain.NodeMetadata {
	var out domain.NodeMetadata
	if metadata == nil {
		return out
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		logger.Warn("could not marshal chroma metadata: %v", err)
		return out
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		logger.Warn("could not unmarshal chroma metadata: %v", err)
		return out
	}

	str := func(key string) string {
		s, _ := values[key].(string)
		return s
	}
	out.DocID = str(metaDocID)
	out.ChunkID = domain.ChunkIdentity(str(metaChunkID))
	out.Source = str(metaSource)
	return out
}

// Count returns the number of documents in the collection.
func (i *Index) Count(ctx context.Context) (int, error) {
	count, err := i.collection.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting chroma collection: %w", err)
	}
	return int(count), nil
}

// Flush is a no-op; Chroma persists on write.
func (i *Index) Flush(_ context.Context) error {
	return nil
}

// Close closes the client.
func (i *Index) Close() error {
	return i.client.Close()
}
