package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or backend name.
	ErrUnsupportedType = errors.New("unsupported type")

	// Pipeline Errors.

	// ErrUnsupportedFileType indicates an upload extension outside the allowed set.
	ErrUnsupportedFileType = errors.New("only .txt and .pdf allowed")

	// ErrExtractionEmpty indicates extraction produced no usable text.
	ErrExtractionEmpty = errors.New("could not extract text from this file")

	// ErrIndexNotFound indicates retrieval was attempted before any successful index run.
	ErrIndexNotFound = errors.New("index not found: run ingestion first")

	// ErrCapabilityFailure indicates the embedding, index, or completion
	// collaborator failed or timed out.
	ErrCapabilityFailure = errors.New("capability failure")

	// ErrLLMUnavailable indicates the completion service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index could not be opened.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
