package recursive

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

func TestNew_Defaults(t *testing.T) {
	p := New()
	assert.Equal(t, 1200, p.maxChars)
	assert.Equal(t, 200, p.overlap)
	assert.Equal(t, DefaultSeparators, p.separators)
	assert.Equal(t, "recursive", p.Name())
}

func TestNew_ClampsOverlap(t *testing.T) {
	p := New(WithMaxChars(40), WithOverlap(40))
	assert.Equal(t, 10, p.overlap)
}

func TestProcess_ShortText(t *testing.T) {
	doc := &domain.Document{ID: "a.txt", Content: "Para one.\n\nPara two."}

	chunks, err := New().Process(context.Background(), doc, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a.txt", chunks[0].DocumentID)
	assert.Contains(t, chunks[0].Content, "Para one.")
	assert.Contains(t, chunks[0].Content, "Para two.")
}

func TestProcess_LongText(t *testing.T) {
	var paras []string
	for i := 0; i < 20; i++ {
		paras = append(paras, strings.Repeat("word ", 20))
	}
	doc := &domain.Document{ID: "b.txt", Content: strings.Join(paras, "\n\n")}

	chunks, err := New(WithMaxChars(200), WithOverlap(20)).Process(context.Background(), doc, nil)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.Equal(t, i, c.Position)
		assert.NotEmpty(t, c.Content)
	}
}

func TestProcess_Empty(t *testing.T) {
	chunks, err := New().Process(context.Background(), &domain.Document{ID: "x"}, nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestProcess_NilDocument(t *testing.T) {
	_, err := New().Process(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
