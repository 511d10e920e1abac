package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RAGLINE_DATA_DIR", "")
	t.Setenv("RAGLINE_VECTOR_INDEX_BACKEND", "memory")
	t.Setenv("RAGLINE_INGEST_AUTO_INDEX", "false")
}

func TestResolveDataDir(t *testing.T) {
	t.Setenv("RAGLINE_DATA_DIR", "/from/env")
	assert.Equal(t, "/explicit", ResolveDataDir("/explicit"))
	assert.Equal(t, "/from/env", ResolveDataDir(""))

	t.Setenv("RAGLINE_DATA_DIR", "")
	assert.NotEmpty(t, ResolveDataDir(""))
}

func TestNew_BuildsServices(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	a, err := New(context.Background(), dir)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, dir, a.Settings.DataDir)
	assert.Equal(t, domain.VectorBackendMemory, a.Settings.VectorIndex.Backend)
	assert.Empty(t, a.Warnings)
	assert.NotNil(t, a.Ingest)
	assert.NotNil(t, a.Index)
	assert.NotNil(t, a.Retrieval)
	assert.NotNil(t, a.Chat)

	assert.DirExists(t, filepath.Join(dir, UploadsDirName))
	assert.DirExists(t, filepath.Join(dir, StorageDirName))
}

func TestNew_IngestAppendsChunks(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	a, err := New(context.Background(), dir)
	require.NoError(t, err)
	defer a.Close()

	res, err := a.Ingest.Ingest(context.Background(), "notes.txt", []byte("first paragraph\n\nsecond paragraph"))
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.False(t, res.Indexed)
	assert.Equal(t, 1, res.ChunksAdded)

	data, err := os.ReadFile(filepath.Join(dir, StorageDirName, "chunks.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "second paragraph")
}

func TestNew_UnreachableVectorBackendIsAWarning(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RAGLINE_VECTOR_INDEX_BACKEND", "postgres")
	t.Setenv("RAGLINE_VECTOR_INDEX_DSN", "")

	a, err := New(context.Background(), t.TempDir())
	require.NoError(t, err)
	defer a.Close()

	require.NotEmpty(t, a.Warnings)
	assert.Contains(t, a.Warnings[0], "semantic index unavailable")

	_, err = a.Retrieval.Retrieve(context.Background(), "query", 5)
	assert.ErrorIs(t, err, domain.ErrCapabilityFailure)
}

func TestLoadEnv_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("RAGLINE_TEST_FROM_DOTENV=dotenv\nRAGLINE_TEST_PRESET=dotenv\n"), 0o600))
	t.Setenv("RAGLINE_TEST_PRESET", "process")
	t.Setenv("RAGLINE_TEST_FROM_DOTENV", "")
	require.NoError(t, os.Unsetenv("RAGLINE_TEST_FROM_DOTENV"))

	LoadEnv(dir)

	assert.Equal(t, "dotenv", os.Getenv("RAGLINE_TEST_FROM_DOTENV"))
	assert.Equal(t, "process", os.Getenv("RAGLINE_TEST_PRESET"))
}

func TestClose_Idempotent(t *testing.T) {
	isolateEnv(t)
	a, err := New(context.Background(), t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())
}
