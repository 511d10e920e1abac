package jsonl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

func newTestStore(t *testing.T) *ChunkStore {
	t.Helper()
	s, err := NewChunkStore(filepath.Join(t.TempDir(), "storage", DefaultFileName))
	require.NoError(t, err)
	return s
}

func TestChunkStore_ReadAll_Missing(t *testing.T) {
	records, err := newTestStore(t).ReadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestChunkStore_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := []domain.ChunkRecord{
		{DocID: "uploads/a.txt", Text: "Para one.", Source: "uploads/a.txt", SequenceIndex: 0},
		{DocID: "uploads/a.txt", Text: "Para <two> & more", Source: "uploads/a.txt", SequenceIndex: 1},
	}
	second := []domain.ChunkRecord{
		{DocID: "uploads/b.pdf", Text: "Café résumé", SequenceIndex: 0},
	}

	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))
	require.NoError(t, s.Append(ctx, nil))

	records, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, append(first, second...), records)
}

func TestChunkStore_LineFormat(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(context.Background(), []domain.ChunkRecord{
		{DocID: "d", Text: "a < b", Source: "d", SequenceIndex: 3},
	}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, `{"doc_id":"d","text":"a < b","source":"d","chunk_id":3}`+"\n", string(data))
}

func TestChunkStore_SkipsBlankAndPartialLines(t *testing.T) {
	s := newTestStore(t)
	content := `{"doc_id":"d","text":"one","source":"d","chunk_id":0}` + "\n\n   \n" +
		`not json` + "\n" +
		`{"doc_id":"d","text":"two","source":"d","chunk_id":1}` + "\n" +
		`{"doc_id":"d","text":"tor`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	records, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "one", records[0].Text)
	assert.Equal(t, "two", records[1].Text)
}

func TestChunkStore_AppendAfterPartialLine(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"doc_id":"d","te`), 0o644))

	require.NoError(t, s.Append(ctx, []domain.ChunkRecord{{DocID: "d", Text: "ok"}}))

	records, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].Text)
}

func TestChunkStore_LargeRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	big := strings.Repeat("x", 200*1024)

	require.NoError(t, s.Append(ctx, []domain.ChunkRecord{{DocID: "d", Text: big}}))

	records, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, big, records[0].Text)
}

func TestChunkStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			batch := []domain.ChunkRecord{
				{DocID: "d", Text: "a", SequenceIndex: i},
				{DocID: "d", Text: "b", SequenceIndex: i},
			}
			assert.NoError(t, s.Append(ctx, batch))
		}(i)
	}
	wg.Wait()

	records, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 40)
	for i := 0; i < len(records); i += 2 {
		assert.Equal(t, "a", records[i].Text)
		assert.Equal(t, "b", records[i+1].Text)
		assert.Equal(t, records[i].SequenceIndex, records[i+1].SequenceIndex, "batches must not interleave")
	}
}

func TestChunkStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestStore(t).Append(ctx, []domain.ChunkRecord{{DocID: "d", Text: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
}
