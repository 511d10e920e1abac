package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragline/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragline/internal/core/domain"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "RAGLINE_LLM_API_KEY", EnvName("llm.api_key"))
	assert.Equal(t, "RAGLINE_CHUNKING_MAX_CHARS", EnvName("chunking.max_chars"))
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil, WithEnvLookup(noEnv), WithDataDir("/data"))

	s, err := svc.Get()

	require.NoError(t, err)
	want := domain.DefaultAppSettings()
	want.DataDir = "/data"
	assert.Equal(t, &want, s)
}

func TestSettingsService_Get_FileOverridesDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("llm.provider", "anthropic"))
	require.NoError(t, store.Set("llm.api_key", "sk-ant"))
	require.NoError(t, store.Set("llm.timeout", "30s"))
	require.NoError(t, store.Set("chunking.max_chars", int64(800)))
	require.NoError(t, store.Set("embedding.requests_per_second", 2.5))
	require.NoError(t, store.Set("ingest.auto_index", false))
	require.NoError(t, store.Set("server.cors_origins", []any{"http://a", "http://b"}))
	require.NoError(t, store.Set("vector_index.backend", "bolt"))
	svc := NewSettingsService(store, nil, WithEnvLookup(noEnv))

	s, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, s.LLM.Provider)
	assert.Equal(t, "sk-ant", s.LLM.APIKey)
	assert.Equal(t, 30*time.Second, s.LLM.Timeout)
	assert.Equal(t, 800, s.Chunking.MaxChars)
	assert.Equal(t, 200, s.Chunking.Overlap)
	assert.InDelta(t, 2.5, s.Embedding.RequestsPerSecond, 1e-9)
	assert.False(t, s.Ingest.AutoIndex)
	assert.Equal(t, []string{"http://a", "http://b"}, s.Server.CORSOrigins)
	assert.Equal(t, domain.VectorBackendBolt, s.VectorIndex.Backend)
}

func TestSettingsService_Get_InvalidFileValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("llm.provider", "cohere"))
	require.NoError(t, store.Set("embedding.provider", "anthropic"))
	require.NoError(t, store.Set("chunking.max_chars", -5))
	require.NoError(t, store.Set("llm.timeout", "soon"))
	require.NoError(t, store.Set("vector_index.backend", "faiss"))
	svc := NewSettingsService(store, nil, WithEnvLookup(noEnv))

	s, err := svc.Get()

	require.NoError(t, err)
	d := domain.DefaultAppSettings()
	assert.Equal(t, d.LLM.Provider, s.LLM.Provider)
	assert.Equal(t, d.Embedding.Provider, s.Embedding.Provider)
	assert.Equal(t, d.Chunking.MaxChars, s.Chunking.MaxChars)
	assert.Equal(t, d.LLM.Timeout, s.LLM.Timeout)
	assert.Equal(t, d.VectorIndex.Backend, s.VectorIndex.Backend)
}

func TestSettingsService_Get_EnvOverridesFile(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("llm.model", "from-file"))
	require.NoError(t, store.Set("ingest.auto_index", true))
	svc := NewSettingsService(store, nil, WithEnvLookup(envMap(map[string]string{
		"RAGLINE_LLM_MODEL":           "from-env",
		"RAGLINE_INGEST_AUTO_INDEX":   "false",
		"RAGLINE_CHUNKING_OVERLAP":    "0",
		"RAGLINE_SERVER_CORS_ORIGINS": "http://x, http://y",
		"RAGLINE_EMBEDDING_API_KEY":   "",
		"RAGLINE_CHUNKING_MAX_CHARS":  "lots",
	})))

	s, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "from-env", s.LLM.Model)
	assert.False(t, s.Ingest.AutoIndex)
	assert.Equal(t, 0, s.Chunking.Overlap)
	assert.Equal(t, []string{"http://x", "http://y"}, s.Server.CORSOrigins)
	assert.Equal(t, 1200, s.Chunking.MaxChars, "invalid env value is ignored")
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil, WithEnvLookup(noEnv))

	s := domain.DefaultAppSettings()
	s.LLM.Provider = domain.AIProviderOpenAI
	s.LLM.APIKey = "sk-test"
	s.Embedding.Timeout = 90 * time.Second
	s.Server.CORSOrigins = []string{"http://app"}
	require.NoError(t, svc.Save(&s))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, got.LLM.Provider)
	assert.Equal(t, "sk-test", got.LLM.APIKey)
	assert.Equal(t, 90*time.Second, got.Embedding.Timeout)
	assert.Equal(t, []string{"http://app"}, got.Server.CORSOrigins)
	assert.Equal(t, "1m30s", store.GetString("embedding.timeout"))

	require.NoError(t, store.Set("embedding.timeout", "90s"))
	reloaded, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, reloaded.Embedding.Timeout)
}

func TestSettingsService_Save_EmptyAPIKeyKeepsStored(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("llm.api_key", "keep-me"))
	svc := NewSettingsService(store, nil, WithEnvLookup(noEnv))

	s := domain.DefaultAppSettings()
	require.NoError(t, svc.Save(&s))

	assert.Equal(t, "keep-me", store.GetString("llm.api_key"))
}

func TestSettingsService_Set(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil, WithEnvLookup(noEnv))

	require.NoError(t, svc.Set("chunking.max_chars", "900"))
	assert.Equal(t, 900, store.GetInt("chunking.max_chars"))

	require.NoError(t, svc.Set("llm.provider", "gemini"))
	assert.Equal(t, "gemini", store.GetString("llm.provider"))

	require.NoError(t, svc.Set("ingest.auto_index", "false"))
	v, ok := store.GetBool("ingest.auto_index")
	assert.True(t, ok)
	assert.False(t, v)

	require.NoError(t, svc.Set("llm.provider", ""))
	_, ok = store.Get("llm.provider")
	assert.False(t, ok, "empty value unsets")
}

func TestSettingsService_Set_Invalid(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil, WithEnvLookup(noEnv))

	tests := []struct{ key, value string }{
		{"nope.key", "x"},
		{"llm.provider", "cohere"},
		{"embedding.provider", "anthropic"},
		{"chunking.max_chars", "0"},
		{"chunking.overlap", "-1"},
		{"llm.timeout", "-3s"},
		{"vector_index.backend", "faiss"},
		{"ingest.auto_index", "maybe"},
		{"embedding.requests_per_second", "-1"},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, svc.Set(tt.key, tt.value), domain.ErrInvalidInput, tt.key)
	}
}

func TestSettingsService_Entries(t *testing.T) {
	store := memory.NewConfigStore()
	require.NoError(t, store.Set("llm.api_key", "sk-1234567890abcd"))
	svc := NewSettingsService(store, nil, WithEnvLookup(noEnv), WithDataDir("/d"))

	entries, err := svc.Entries()
	require.NoError(t, err)

	byKey := map[string]domain.SettingEntry{}
	for _, e := range entries {
		byKey[e.Key] = e
	}
	assert.Equal(t, "/d", byKey["data_dir"].Value)
	assert.Equal(t, "****abcd", byKey["llm.api_key"].Value)
	assert.True(t, byKey["llm.api_key"].Secret)
	assert.Equal(t, "", byKey["embedding.api_key"].Value)
	assert.Equal(t, "1200", byKey["chunking.max_chars"].Value)
	assert.Equal(t, "3m0s", byKey["llm.timeout"].Value)
	assert.Len(t, entries, len(SettingKeys())+1)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "********", MaskSecret("short"))
	assert.Equal(t, "****6789", MaskSecret("abcdef123456789"))
}

func TestSettingsService_Validate(t *testing.T) {
	validator := &mockAIValidator{llmErr: errors.New("unreachable")}
	svc := NewSettingsService(memory.NewConfigStore(), validator, WithEnvLookup(noEnv))

	require.NoError(t, svc.ValidateEmbeddingConfig())
	assert.Equal(t, domain.AIProviderOllama, validator.embedding.Provider)
	assert.Error(t, svc.ValidateLLMConfig())

	noValidator := NewSettingsService(memory.NewConfigStore(), nil)
	assert.NoError(t, noValidator.ValidateEmbeddingConfig())
	assert.NoError(t, noValidator.ValidateLLMConfig())
}

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(), nil)
	assert.Equal(t, domain.DefaultAppSettings(), svc.GetDefaults())
}
