package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

type mockSettingsService struct {
	settings *domain.AppSettings
	entries  []domain.SettingEntry
	set      map[string]string
	setErr   error

	validateEmbeddingErr error
	validateLLMErr       error
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultAppSettings()
	return &mockSettingsService{settings: &s, set: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) { return m.settings, nil }

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Entries() ([]domain.SettingEntry, error) { return m.entries, nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.validateEmbeddingErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.validateLLMErr }

type mockIngestService struct {
	ingestFunc func(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error)
}

func (m *mockIngestService) Ingest(ctx context.Context, filename string, data []byte) (*domain.UploadResult, error) {
	if m.ingestFunc != nil {
		return m.ingestFunc(ctx, filename, data)
	}
	return &domain.UploadResult{Saved: true, Filename: filename}, nil
}

type mockIndexService struct {
	stats *domain.IndexStats
	ids   []string
	err   error
}

func (m *mockIndexService) Index(context.Context) (*domain.IndexStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.stats == nil {
		return &domain.IndexStats{Message: domain.MessageNothingToEmbed}, nil
	}
	return m.stats, nil
}

func (m *mockIndexService) KnownIDs(context.Context) ([]string, error) {
	return m.ids, m.err
}

type mockRetrievalService struct {
	retrieveFunc func(ctx context.Context, q string, topK int) ([]domain.RetrievalHit, error)
}

func (m *mockRetrievalService) Retrieve(ctx context.Context, q string, topK int) ([]domain.RetrievalHit, error) {
	if m.retrieveFunc != nil {
		return m.retrieveFunc(ctx, q, topK)
	}
	return nil, nil
}

type mockChatService struct {
	answerFunc func(ctx context.Context, q string, topK int) (*domain.AnswerEnvelope, error)
}

func (m *mockChatService) Answer(ctx context.Context, q string, topK int) (*domain.AnswerEnvelope, error) {
	if m.answerFunc != nil {
		return m.answerFunc(ctx, q, topK)
	}
	return &domain.AnswerEnvelope{Question: q, TopK: topK}, nil
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	settings  *mockSettingsService
	ingest    *mockIngestService
	index     *mockIndexService
	retrieval *mockRetrievalService
	chat      *mockChatService
}

// setupTestServices installs mocks into the package service variables and
// restores everything, flag values included, when the test ends.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		settings:  newMockSettingsService(),
		ingest:    &mockIngestService{},
		index:     &mockIndexService{},
		retrieval: &mockRetrievalService{},
		chat:      &mockChatService{},
	}

	origStdin := stdin

	settingsService = ts.settings
	ingestService = ts.ingest
	indexService = ts.index
	retrievalService = ts.retrieval
	chatService = ts.chat
	appSettings = ts.settings.settings

	t.Cleanup(func() {
		settingsService = nil
		ingestService = nil
		indexService = nil
		retrievalService = nil
		chatService = nil
		appSettings = nil
		application = nil

		ingestJSON = false
		indexJSON = false
		retrieveJSON = false
		retrieveTopK = domain.DefaultTopK
		chatJSON = false
		chatTopK = domain.DefaultTopK
		stdin = origStdin
	})
	return ts
}

// runCommand executes the root command with args and returns its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
