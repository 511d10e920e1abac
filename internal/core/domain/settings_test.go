package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderAnthropic.IsValid())
	assert.True(t, AIProviderGemini.IsValid())
	assert.False(t, AIProvider("cohere").IsValid())
}

func TestAIProvider_SupportsEmbeddings(t *testing.T) {
	assert.True(t, AIProviderOllama.SupportsEmbeddings())
	assert.True(t, AIProviderOpenAI.SupportsEmbeddings())
	assert.True(t, AIProviderGemini.SupportsEmbeddings())
	assert.False(t, AIProviderAnthropic.SupportsEmbeddings())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "k"}, true},
		{"anthropic cannot embed", EmbeddingSettings{Provider: AIProviderAnthropic, APIKey: "k"}, false},
		{"empty provider", EmbeddingSettings{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderGemini}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "k"}.IsConfigured())
	assert.False(t, LLMSettings{Provider: "nope"}.IsConfigured())
}

func TestVectorBackend(t *testing.T) {
	for _, b := range []VectorBackend{
		VectorBackendSQLite, VectorBackendBolt, VectorBackendMemory,
		VectorBackendPostgres, VectorBackendChroma,
	} {
		assert.True(t, b.IsValid(), b.String())
	}
	assert.False(t, VectorBackend("faiss").IsValid())
	assert.True(t, VectorBackendSQLite.IsLocal())
	assert.False(t, VectorBackendChroma.IsLocal())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, ChunkStrategyParagraph, s.Chunking.Strategy)
	assert.Equal(t, 1200, s.Chunking.MaxChars)
	assert.Equal(t, 200, s.Chunking.Overlap)
	assert.Equal(t, AIProviderOllama, s.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", s.Embedding.Model)
	assert.Equal(t, "llama3:8b", s.LLM.Model)
	assert.Equal(t, 180*time.Second, s.LLM.Timeout)
	assert.Equal(t, VectorBackendSQLite, s.VectorIndex.Backend)
	assert.True(t, s.Ingest.AutoIndex)
	assert.Equal(t, ":8000", s.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, s.Server.CORSOrigins)
}
