package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Add files to the chunk log",
	Long: `Stores each file under the uploads directory, extracts its text, splits it
into chunks, and appends them to the chunk log.

Only .txt and .pdf files are accepted. When ingest.auto_index is enabled the
new chunks are embedded straight away; otherwise run 'ragline index'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	results := make([]*domain.UploadResult, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		res, err := ingestService.Ingest(cmd.Context(), filepath.Base(path), data)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		results = append(results, res)

		if !ingestJSON {
			printUploadResult(cmd, res)
		}
	}

	if ingestJSON {
		return printJSON(cmd, results)
	}
	return nil
}

func printUploadResult(cmd *cobra.Command, res *domain.UploadResult) {
	cmd.Printf("Saved %s (%d chunks)\n", res.Filename, res.ChunksAdded)
	switch {
	case res.Indexed:
		cmd.Printf("  Indexed: %d embedded\n", res.EmbeddedNow)
	case res.Message != "":
		cmd.Printf("  Not indexed: %s\n", res.Message)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
