package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or completion.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API (or a compatible server).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API. Completion only.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// SupportsEmbeddings returns true if the provider can generate embeddings.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderGemini
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies the storage behind the vector index.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendSQLite stores vectors in a local SQLite database.
	VectorBackendSQLite VectorBackend = "sqlite"

	// VectorBackendBolt stores vectors in a local bbolt file.
	VectorBackendBolt VectorBackend = "bolt"

	// VectorBackendMemory keeps vectors in process memory. Not durable.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendPostgres stores vectors in PostgreSQL with pgvector.
	VectorBackendPostgres VectorBackend = "postgres"

	// VectorBackendChroma stores vectors in a Chroma server collection.
	VectorBackendChroma VectorBackend = "chroma"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendBolt, VectorBackendMemory,
		VectorBackendPostgres, VectorBackendChroma:
		return true
	default:
		return false
	}
}

// IsLocal returns true if the backend keeps its data under the data directory.
func (b VectorBackend) IsLocal() bool {
	return b == VectorBackendSQLite || b == VectorBackendBolt
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// ChunkStrategy selects the chunking post-processor.
type ChunkStrategy string

// Available chunking strategies.
const (
	// ChunkStrategyParagraph is greedy paragraph packing with a trailing overlap seed.
	ChunkStrategyParagraph ChunkStrategy = "paragraph"

	// ChunkStrategyRecursive is a recursive character splitter.
	ChunkStrategyRecursive ChunkStrategy = "recursive"
)

// IsValid returns true if the strategy is recognised.
func (s ChunkStrategy) IsValid() bool {
	return s == ChunkStrategyParagraph || s == ChunkStrategyRecursive
}

// String returns the string representation.
func (s ChunkStrategy) String() string {
	return string(s)
}

// ChunkingSettings controls how documents are split.
type ChunkingSettings struct {
	// Strategy is the post-processor used to split documents.
	Strategy ChunkStrategy

	// MaxChars is the target maximum chunk size in characters.
	MaxChars int

	// Overlap is the number of trailing characters carried into the next chunk.
	Overlap int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// RequestsPerSecond throttles embedding calls. Zero disables throttling.
	RequestsPerSecond float64

	// Timeout bounds each embedding request.
	Timeout time.Duration
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbeddings() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds completion provider configuration.
type LLMSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Timeout bounds a single completion call.
	Timeout time.Duration
}

// IsConfigured returns true if the completion provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorIndexSettings selects and configures the vector backend.
type VectorIndexSettings struct {
	// Backend is the storage behind the index.
	Backend VectorBackend

	// DSN is the PostgreSQL connection string (postgres backend).
	DSN string

	// URL is the Chroma server URL (chroma backend).
	URL string

	// Collection is the collection or table name for server backends.
	Collection string

	// Dimensions is the embedding size, required by the postgres backend.
	Dimensions int
}

// IngestSettings controls upload handling.
type IngestSettings struct {
	// AutoIndex runs the incremental indexer after every upload.
	AutoIndex bool
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string

	// BodyLimitMB caps request bodies, uploads included.
	BodyLimitMB int
}

// ExtractionSettings configures text extraction.
type ExtractionSettings struct {
	// PDFLicenseKey is the UniPDF metered license key. Empty runs unlicensed.
	PDFLicenseKey string
}

// SettingEntry is one resolved configuration value, for display.
type SettingEntry struct {
	Key    string
	Value  string
	Secret bool
}

// AppSettings is the resolved application configuration.
type AppSettings struct {
	// DataDir is the root of all persisted state.
	DataDir string

	Chunking    ChunkingSettings
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorIndex VectorIndexSettings
	Ingest      IngestSettings
	Server      ServerSettings
	Extraction  ExtractionSettings
}

// DefaultAppSettings returns the default configuration.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			Strategy: ChunkStrategyParagraph,
			MaxChars: 1200,
			Overlap:  200,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
			Timeout:  60 * time.Second,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    "llama3:8b",
			Timeout:  180 * time.Second,
		},
		VectorIndex: VectorIndexSettings{
			Backend:    VectorBackendSQLite,
			Collection: "ragline_nodes",
			Dimensions: 768,
		},
		Ingest: IngestSettings{
			AutoIndex: true,
		},
		Server: ServerSettings{
			Addr:        ":8000",
			CORSOrigins: []string{"http://localhost:5173"},
			BodyLimitMB: 32,
		},
	}
}
