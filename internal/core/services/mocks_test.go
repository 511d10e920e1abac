package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockChunkStore implements driven.ChunkStore in memory.
type mockChunkStore struct {
	mu        sync.Mutex
	records   []domain.ChunkRecord
	appendErr error
	readErr   error
}

func (m *mockChunkStore) Append(_ context.Context, records []domain.ChunkRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

func (m *mockChunkStore) ReadAll(_ context.Context) ([]domain.ChunkRecord, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChunkRecord(nil), m.records...), nil
}

// mockKnownIDStore implements driven.KnownIDStore in memory.
type mockKnownIDStore struct {
	ids     []string
	saves   int
	loadErr error
	saveErr error
}

func (m *mockKnownIDStore) Load(_ context.Context) (*domain.EmbeddedIDSet, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	set := domain.NewEmbeddedIDSet()
	for _, id := range m.ids {
		set.Add(domain.ChunkIdentity(id))
	}
	return set, nil
}

func (m *mockKnownIDStore) Save(_ context.Context, ids *domain.EmbeddedIDSet) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.ids = ids.Sorted()
	return nil
}

// mockSemanticIndex implements driven.SemanticIndex with exact-text scoring.
type mockSemanticIndex struct {
	nodes       []domain.Node
	persisted   int
	hits        []driven.VectorHit
	insertErr   error
	persistErr  error
	retrieveErr error
	countErr    error
	lastK       int
}

func (m *mockSemanticIndex) InsertNodes(_ context.Context, nodes []domain.Node) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, n := range nodes {
		replaced := false
		for i := range m.nodes {
			if m.nodes[i].Metadata.ChunkID == n.Metadata.ChunkID {
				m.nodes[i] = n
				replaced = true
			}
		}
		if !replaced {
			m.nodes = append(m.nodes, n)
		}
	}
	return nil
}

func (m *mockSemanticIndex) Persist(_ context.Context) error {
	if m.persistErr != nil {
		return m.persistErr
	}
	m.persisted++
	return nil
}

func (m *mockSemanticIndex) RetrieveTopK(_ context.Context, _ string, k int) ([]driven.VectorHit, error) {
	m.lastK = k
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	if m.hits != nil {
		return m.hits, nil
	}
	out := make([]driven.VectorHit, 0, k)
	for i, n := range m.nodes {
		if i == k {
			break
		}
		score := 1.0 / float64(i+1)
		out = append(out, driven.VectorHit{Node: n, Score: &score})
	}
	return out, nil
}

func (m *mockSemanticIndex) IsPopulated(_ context.Context) (bool, error) {
	if m.countErr != nil {
		return false, m.countErr
	}
	return len(m.nodes) > 0 || m.hits != nil, nil
}

func (m *mockSemanticIndex) Close() error {
	return nil
}

// mockUploadStore implements driven.UploadStore with "(N)" naming.
type mockUploadStore struct {
	dir     string
	files   map[string][]byte
	removed []string
	saveErr error
}

func newMockUploadStore() *mockUploadStore {
	return &mockUploadStore{dir: "/uploads", files: make(map[string][]byte)}
}

func (m *mockUploadStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	name := filepath.Base(filename)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	path := filepath.Join(m.dir, name)
	for n := 2; ; n++ {
		if _, taken := m.files[path]; !taken {
			break
		}
		path = filepath.Join(m.dir, fmt.Sprintf("%s(%d)%s", stem, n, ext))
	}
	m.files[path] = data
	return path, nil
}

func (m *mockUploadStore) Remove(path string) error {
	delete(m.files, path)
	m.removed = append(m.removed, path)
	return nil
}

func (m *mockUploadStore) Dir() string {
	return m.dir
}

// mockExtractor returns the bytes as text, or a fixed result.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Kinds() []domain.FileKind {
	return []domain.FileKind{domain.FileKindPlain, domain.FileKindPDF}
}

func (m *mockExtractor) Extract(_ context.Context, data []byte, _ domain.FileKind) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(data), nil
}

// paragraphPipeline emits one chunk per paragraph.
type paragraphPipeline struct {
	err error
}

func (p *paragraphPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if p.err != nil {
		return nil, p.err
	}
	var chunks []domain.Chunk
	for _, para := range strings.Split(doc.Content, "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{DocumentID: doc.ID, Content: para, Position: len(chunks)})
	}
	return chunks, nil
}

// mockIndexService implements driving.IndexService.
type mockIndexService struct {
	stats *domain.IndexStats
	err   error
	calls int
}

func (m *mockIndexService) Index(_ context.Context) (*domain.IndexStats, error) {
	m.calls++
	return m.stats, m.err
}

func (m *mockIndexService) KnownIDs(_ context.Context) ([]string, error) {
	return nil, nil
}

// mockRetrievalService implements driving.RetrievalService.
type mockRetrievalService struct {
	hits []domain.RetrievalHit
	err  error
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievalHit, error) {
	return m.hits, m.err
}

// mockLLMService implements driven.LLMService.
type mockLLMService struct {
	response   string
	err        error
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.lastPrompt = prompt
	m.lastOpts = opts
	return m.response, m.err
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error                 { return nil }

// mockPromptStore returns fixed prompts.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("unknown prompt")
}

func (m *mockPromptStore) Reload() {}

// mockAIValidator records validation calls.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
	embedding    *domain.EmbeddingSettings
	llm          *domain.LLMSettings
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.embedding = config
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(config *domain.LLMSettings) error {
	m.llm = config
	return m.llmErr
}
