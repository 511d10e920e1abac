package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragline/internal/adapters/driving/watch"
	"github.com/custodia-labs/ragline/internal/app"
	"github.com/custodia-labs/ragline/internal/core/domain"
)

var watchDebounce = watch.DefaultDebounce

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest files dropped into a directory",
	Long: `Watches a directory and ingests every .txt or .pdf file created or modified
in it, once writes to the file have settled. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	uploads, err := filepath.Abs(filepath.Join(settings.DataDir, app.UploadsDirName))
	if err != nil {
		return err
	}
	// Ingest saves into the uploads directory; watching it would loop.
	if dir == uploads {
		return errors.New("cannot watch the uploads directory")
	}

	w := watch.New(dir, ingestService,
		watch.WithDebounce(watchDebounce),
		watch.WithResultHandler(func(path string, res *domain.UploadResult, err error) {
			if err != nil {
				cmd.PrintErrf("%s: %v\n", filepath.Base(path), err)
				return
			}
			printUploadResult(cmd, res)
		}),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
