// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - TextExtractor: Turns uploaded bytes into raw text
//   - PostProcessor: Splits a normalised document into chunks
//   - ChunkStore: Append-only chunk log
//   - KnownIDStore: Persisted set of embedded identities
//   - UploadStore: Collision-avoiding file storage for uploads
//   - SemanticIndex: Insert, persist, and query embedded nodes
//   - ConfigStore: Application configuration
//
// # Collaborators Behind SemanticIndex
//
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Stores vectors and runs similarity search
//
// # Optional Interfaces
//
//   - LLMService: Completion. Without it, chat is disabled but retrieval works.
//   - PromptStore: User-editable prompt templates.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or post-processor package
package driven
