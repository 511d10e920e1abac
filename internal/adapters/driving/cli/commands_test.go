package cli

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

func TestIngestCmd_PrintsResult(t *testing.T) {
	ts := setupTestServices(t)
	var gotName string
	var gotData []byte
	ts.ingest.ingestFunc = func(_ context.Context, name string, data []byte) (*domain.UploadResult, error) {
		gotName, gotData = name, data
		return &domain.UploadResult{
			Saved: true, Filename: name, ChunksAdded: 2, Indexed: true, EmbeddedNow: 2,
		}, nil
	}

	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	out, err := runCommand(t, "ingest", path)

	require.NoError(t, err)
	assert.Equal(t, "cv.txt", gotName)
	assert.Equal(t, []byte("hello"), gotData)
	assert.Contains(t, out, "Saved cv.txt (2 chunks)")
	assert.Contains(t, out, "Indexed: 2 embedded")
}

func TestIngestCmd_NotIndexedMessage(t *testing.T) {
	ts := setupTestServices(t)
	ts.ingest.ingestFunc = func(_ context.Context, name string, _ []byte) (*domain.UploadResult, error) {
		return &domain.UploadResult{Saved: true, Filename: name, ChunksAdded: 1, Message: "run ragline index"}, nil
	}
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	out, err := runCommand(t, "ingest", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Not indexed: run ragline index")
}

func TestIngestCmd_JSON(t *testing.T) {
	setupTestServices(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o600))

	out, err := runCommand(t, "ingest", "--json", a, b)

	require.NoError(t, err)
	var results []domain.UploadResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "b.txt", results[1].Filename)
}

func TestIngestCmd_RejectedFile(t *testing.T) {
	ts := setupTestServices(t)
	ts.ingest.ingestFunc = func(context.Context, string, []byte) (*domain.UploadResult, error) {
		return nil, domain.ErrUnsupportedFileType
	}
	path := filepath.Join(t.TempDir(), "notes.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := runCommand(t, "ingest", path)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestIngestCmd_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "ingest", filepath.Join(t.TempDir(), "missing.txt"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIndexCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.index.stats = &domain.IndexStats{
		ScanStats:   domain.ScanStats{TotalRead: 4, Skipped: 1, NewFound: 3},
		EmbeddedNow: 3,
		Message:     domain.MessageEmbedded,
	}

	out, err := runCommand(t, "index")

	require.NoError(t, err)
	assert.Contains(t, out, "Read: 4  Skipped: 1  New: 3  Embedded: 3")
	assert.Contains(t, out, domain.MessageEmbedded)
}

func TestIndexCmd_EmbedAliasJSON(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "embed", "--json")

	require.NoError(t, err)
	var stats domain.IndexStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, domain.MessageNothingToEmbed, stats.Message)
}

func TestIndexCmd_Error(t *testing.T) {
	ts := setupTestServices(t)
	ts.index.err = domain.ErrCapabilityFailure

	_, err := runCommand(t, "index")

	assert.ErrorIs(t, err, domain.ErrCapabilityFailure)
}

func TestIDsCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.index.ids = []string{"aaa", "bbb"}

	out, err := runCommand(t, "ids")

	require.NoError(t, err)
	assert.Equal(t, "aaa\nbbb\n", out)
}

func TestRetrieveCmd(t *testing.T) {
	ts := setupTestServices(t)
	var gotK int
	ts.retrieval.retrieveFunc = func(_ context.Context, _ string, k int) ([]domain.RetrievalHit, error) {
		gotK = k
		return []domain.RetrievalHit{{Score: 0.75, DocID: "cv.txt", ChunkID: "x", Text: "Go engineer"}}, nil
	}

	out, err := runCommand(t, "retrieve", "-k", "3", "go")

	require.NoError(t, err)
	assert.Equal(t, 3, gotK)
	assert.Contains(t, out, "[1] cv.txt (0.750)")
	assert.Contains(t, out, "Go engineer")
}

func TestRetrieveCmd_NoResults(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "retrieve", "anything")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestRetrieveCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "retrieve", "--json", "q")

	require.NoError(t, err)
	var resp domain.RetrievalResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "q", resp.Query)
	assert.Equal(t, domain.DefaultTopK, resp.TopK)
}

func TestRetrieveCmd_IndexNotFound(t *testing.T) {
	ts := setupTestServices(t)
	ts.retrieval.retrieveFunc = func(context.Context, string, int) ([]domain.RetrievalHit, error) {
		return nil, domain.ErrIndexNotFound
	}

	_, err := runCommand(t, "retrieve", "q")

	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestChatCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.chat.answerFunc = func(_ context.Context, q string, k int) (*domain.AnswerEnvelope, error) {
		return &domain.AnswerEnvelope{
			Question: q,
			TopK:     k,
			Answer:   "You have five years of Go.",
			Sources:  []domain.Citation{{DocID: "cv.txt", Snippet: "five years"}},
		}, nil
	}

	out, err := runCommand(t, "chat", "how much go?")

	require.NoError(t, err)
	assert.Contains(t, out, "You have five years of Go.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] cv.txt")
}

func TestChatCmd_NoSources(t *testing.T) {
	ts := setupTestServices(t)
	ts.chat.answerFunc = func(_ context.Context, q string, _ int) (*domain.AnswerEnvelope, error) {
		return &domain.AnswerEnvelope{Question: q, Answer: "I don't know."}, nil
	}

	out, err := runCommand(t, "chat", "q")

	require.NoError(t, err)
	assert.NotContains(t, out, "Sources:")
}

func TestChatCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "chat", "--json", "-k", "2", "q")

	require.NoError(t, err)
	var env domain.AnswerEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, 2, env.TopK)
}

func TestChatCmd_LLMFailure(t *testing.T) {
	ts := setupTestServices(t)
	ts.chat.answerFunc = func(context.Context, string, int) (*domain.AnswerEnvelope, error) {
		return nil, errors.Join(domain.ErrCapabilityFailure, domain.ErrLLMUnavailable)
	}

	_, err := runCommand(t, "chat", "q")

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestWatchCmd_RefusesUploadsDir(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.DataDir = t.TempDir()
	uploads := filepath.Join(ts.settings.settings.DataDir, "uploads")
	require.NoError(t, os.MkdirAll(uploads, 0o700))

	_, err := runCommand(t, "watch", uploads)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot watch the uploads directory")
}

func TestLogFormatFlag_Invalid(t *testing.T) {
	setupTestServices(t)
	t.Cleanup(func() { logFormat = defaultLogFormat() })

	_, err := runCommand(t, "--log-format", "xml", "ids")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDefaultLogFormat(t *testing.T) {
	t.Setenv("RAGLINE_LOG_FORMAT", "json")
	assert.Equal(t, "json", defaultLogFormat())

	t.Setenv("RAGLINE_LOG_FORMAT", "")
	assert.Equal(t, "text", defaultLogFormat())
}

func TestEnsureServices_KeepsInjectedServices(t *testing.T) {
	ts := setupTestServices(t)

	require.NoError(t, ensureServices(rootCmd))

	assert.Same(t, ts.chat, chatService)
	assert.Nil(t, application)
}
