package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

func TestNormalise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "a\n\nb", "a\n\nb"},
		{"windows line endings", "a\r\nb\r\n\r\nc", "a\nb\n\nc"},
		{"old mac line endings", "a\rb\r\rc", "a\nb\n\nc"},
		{"mixed endings", "a\r\n\rb", "a\n\nb"},
		{"three newlines collapse", "a\n\n\nb", "a\n\nb"},
		{"many newlines collapse", "a\n\n\n\n\n\n\nb", "a\n\nb"},
		{"crlf runs collapse", "a\r\n\r\n\r\n\r\nb", "a\n\nb"},
		{"trims whitespace", "  \n\na\n\n  ", "a"},
		{"single newline kept", "a\nb", "a\nb"},
		{"whitespace between newlines kept", "a\n \n\nb", "a\n \n\nb"},
		{"empty", "", ""},
		{"only whitespace", " \r\n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalise(tt.in))
		})
	}
}

func TestNormalise_Idempotent(t *testing.T) {
	in := "x\r\n\r\n\r\ny\n\n\n\nz  "
	once := Normalise(in)
	assert.Equal(t, once, Normalise(once))
}

func TestNormaliseExtracted(t *testing.T) {
	t.Run("returns normalised text", func(t *testing.T) {
		got, err := NormaliseExtracted("Para one.\r\n\r\n\r\nPara two.")
		require.NoError(t, err)
		assert.Equal(t, "Para one.\n\nPara two.", got)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NormaliseExtracted("")
		assert.ErrorIs(t, err, domain.ErrExtractionEmpty)
	})

	t.Run("whitespace only input", func(t *testing.T) {
		_, err := NormaliseExtracted("\n\n \t\r\n")
		assert.ErrorIs(t, err, domain.ErrExtractionEmpty)
	})
}
