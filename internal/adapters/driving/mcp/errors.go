// Package mcp exposes retrieval, answering, and indexing to AI assistants
// over the Model Context Protocol.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrToolUnavailable is returned by tools whose service was not provided.
var ErrToolUnavailable = errors.New("mcp: tool unavailable")
