// Package cli provides the ragline command line.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragline/internal/app"
	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driving"
	"github.com/custodia-labs/ragline/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	dataDir   string
	verbose   bool
	logFormat string
)

// Services used by commands. Tests assign these directly; otherwise they are
// built on first use from the resolved settings.
var (
	settingsService  driving.SettingsService
	ingestService    driving.IngestService
	indexService     driving.IndexService
	retrievalService driving.RetrievalService
	chatService      driving.ChatService
	appSettings      *domain.AppSettings

	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "ragline",
	Short: "Incremental retrieval-augmented answering over your own files",
	Long: `ragline ingests plain text and PDF files, splits them into overlapping
chunks, and keeps a vector index of those chunks up to date. Each index run
embeds only chunks it has not seen before.

Questions are answered by retrieving the most similar chunks and passing them
to a completion model as grounding context.`,
	SilenceUsage:      true,
	PersistentPreRunE: configureLogging,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $RAGLINE_DATA_DIR or ~/.ragline)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", defaultLogFormat(), "log format: text or json (default $RAGLINE_LOG_FORMAT)")
}

// Execute runs the root command.
func Execute() error {
	defer closeApplication()
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func defaultLogFormat() string {
	if f := os.Getenv("RAGLINE_LOG_FORMAT"); f != "" {
		return f
	}
	return string(logger.FormatText)
}

func configureLogging(_ *cobra.Command, _ []string) error {
	switch logger.Format(logFormat) {
	case logger.FormatText, logger.FormatJSON:
		logger.SetFormat(logger.Format(logFormat))
	default:
		return fmt.Errorf("%w: unknown log format %q", domain.ErrInvalidInput, logFormat)
	}
	logger.SetVerbose(verbose)
	return nil
}

// ensureSettings makes settingsService available without building the
// pipeline, so settings commands work while providers are misconfigured.
func ensureSettings() error {
	if settingsService != nil {
		return nil
	}
	dir := app.ResolveDataDir(dataDir)
	app.LoadEnv(dir)
	svc, err := app.NewSettingsService(dir)
	if err != nil {
		return err
	}
	settingsService = svc
	return nil
}

// ensureServices builds every pipeline service not already assigned.
func ensureServices(cmd *cobra.Command) error {
	if ingestService != nil && indexService != nil && retrievalService != nil && chatService != nil {
		return nil
	}
	if application != nil {
		return errors.New("services partially configured")
	}

	a, err := app.New(cmd.Context(), dataDir)
	if err != nil {
		return err
	}
	application = a
	for _, w := range a.Warnings {
		logger.Warn("%s", w)
	}

	if settingsService == nil {
		settingsService = a.SettingsService
	}
	if appSettings == nil {
		appSettings = a.Settings
	}
	if ingestService == nil {
		ingestService = a.Ingest
	}
	if indexService == nil {
		indexService = a.Index
	}
	if retrievalService == nil {
		retrievalService = a.Retrieval
	}
	if chatService == nil {
		chatService = a.Chat
	}
	return nil
}

// currentSettings returns appSettings, resolving them when unset.
func currentSettings() (*domain.AppSettings, error) {
	if appSettings != nil {
		return appSettings, nil
	}
	if err := ensureSettings(); err != nil {
		return nil, err
	}
	s, err := settingsService.Get()
	if err != nil {
		return nil, err
	}
	appSettings = s
	return s, nil
}

func closeApplication() {
	if application == nil {
		return
	}
	if err := application.Close(); err != nil {
		logger.Warn("close: %v", err)
	}
	application = nil
}
