package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

var (
	retrieveTopK int
	retrieveJSON bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Show the chunks most similar to a query",
	Long: `Embeds the query and returns the top-k most similar chunks from the index.
top-k must be between 1 and 20.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", domain.DefaultTopK, "number of chunks to return (1-20)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	query := args[0]
	hits, err := retrievalService.Retrieve(cmd.Context(), query, retrieveTopK)
	if err != nil {
		return err
	}

	if retrieveJSON {
		return printJSON(cmd, domain.RetrievalResponse{Query: query, TopK: retrieveTopK, Hits: hits})
	}

	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for i := range hits {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, hits[i].DocID, hits[i].Score)
		cmd.Printf("      %s\n", domain.Snippet(hits[i].Text, domain.SnippetLength))
		cmd.Println()
	}
	return nil
}
