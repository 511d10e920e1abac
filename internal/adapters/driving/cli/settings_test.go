package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsShow(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.entries = []domain.SettingEntry{
		{Key: "chunking.max_chars", Value: "1200"},
		{Key: "llm.api_key", Value: "", Secret: true},
	}

	out, err := runCommand(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "chunking.max_chars  1200")
	assert.Contains(t, out, "llm.api_key         (not set)")
}

func TestSettings_DefaultsToShow(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.entries = []domain.SettingEntry{{Key: "server.addr", Value: ":8000"}}

	out, err := runCommand(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "server.addr  :8000")
}

func TestSettingsSet(t *testing.T) {
	ts := setupTestServices(t)

	out, err := runCommand(t, "settings", "set", "chunking.max_chars", "800")

	require.NoError(t, err)
	assert.Equal(t, "800", ts.settings.set["chunking.max_chars"])
	assert.Contains(t, out, "Set chunking.max_chars")
}

func TestSettingsSet_EmptyRemoves(t *testing.T) {
	ts := setupTestServices(t)

	out, err := runCommand(t, "settings", "set", "llm.model", "")

	require.NoError(t, err)
	assert.Contains(t, ts.settings.set, "llm.model")
	assert.Contains(t, out, "Removed llm.model")
}

func TestSettingsSet_Error(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.setErr = domain.ErrInvalidInput

	_, err := runCommand(t, "settings", "set", "nope", "1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSetKey_ReadsFromStdin(t *testing.T) {
	ts := setupTestServices(t)
	stdin = strings.NewReader("sk-secret\n")

	out, err := runCommand(t, "settings", "set-key", "llm.api_key")

	require.NoError(t, err)
	assert.Equal(t, "sk-secret", ts.settings.set["llm.api_key"])
	assert.NotContains(t, out, "sk-secret")
}

func TestSettingsSetKey_Empty(t *testing.T) {
	setupTestServices(t)
	stdin = strings.NewReader("\n")

	_, err := runCommand(t, "settings", "set-key", "llm.api_key")

	assert.EqualError(t, err, "no value entered")
}

func TestSettingsEmbedding_OllamaNeedsNoKey(t *testing.T) {
	ts := setupTestServices(t)
	stdin = strings.NewReader("1\nmxbai-embed-large\n")

	out, err := runCommand(t, "settings", "embedding")

	require.NoError(t, err)
	assert.Equal(t, "ollama", ts.settings.set["embedding.provider"])
	assert.Equal(t, "mxbai-embed-large", ts.settings.set["embedding.model"])
	assert.NotContains(t, ts.settings.set, "embedding.api_key")
	assert.Contains(t, out, "Validating configuration... OK")
}

func TestSettingsEmbedding_SkipsProvidersWithoutEmbeddings(t *testing.T) {
	setupTestServices(t)
	stdin = strings.NewReader("\n\n")

	out, err := runCommand(t, "settings", "embedding")

	require.NoError(t, err)
	assert.NotContains(t, out, domain.AIProviderAnthropic.Description())
}

func TestSettingsLLM_RequiresKey(t *testing.T) {
	setupTestServices(t)
	stdin = strings.NewReader("2\ngpt-4o-mini\n\n")

	_, err := runCommand(t, "settings", "llm")

	assert.EqualError(t, err, "API key is required for this provider")
}

func TestSettingsLLM_ValidationFailure(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.validateLLMErr = errors.New("401 unauthorized")
	stdin = strings.NewReader("3\n\nsk-ant\n")

	out, err := runCommand(t, "settings", "llm")

	require.Error(t, err)
	assert.Equal(t, "anthropic", ts.settings.set["llm.provider"])
	assert.Equal(t, "sk-ant", ts.settings.set["llm.api_key"])
	assert.Contains(t, out, "FAILED: 401 unauthorized")
}
