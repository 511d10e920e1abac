// Package domain defines the core business entities for ragline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded file's normalised text, ready for chunking
//   - Chunk: A bounded span of a document produced by a post-processor
//   - ChunkRecord: A chunk as persisted in the append-only chunk log
//   - ChunkIdentity: The content fingerprint used as the dedup key
//   - EmbeddedIDSet: Identities already committed to the vector index
//   - RetrievalHit, AnswerEnvelope: Ephemeral query results
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
