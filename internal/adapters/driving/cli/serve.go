package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragline/internal/adapters/driving/rest"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the pipeline over HTTP:

  GET  /health
  POST /upload      multipart field "file"
  POST /embed       (alias /index) run incremental indexing
  GET  /retrieve    ?q=...&top_k=5
  POST /chat        {"question": "...", "top_k": 5}
  GET  /ids         identities already embedded

The listen address and CORS origins default to server.addr and
server.cors_origins.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}
	if addr == "" {
		addr = settings.Server.Addr
	}

	server, err := rest.NewServer(&rest.Ports{
		Ingest:    ingestService,
		Index:     indexService,
		Retrieval: retrievalService,
		Chat:      chatService,
	}, rest.Config{
		CORSOrigins: settings.Server.CORSOrigins,
		BodyLimitMB: settings.Server.BodyLimitMB,
		Version:     version,
		AccessLog:   true,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(ctx, addr)
}
