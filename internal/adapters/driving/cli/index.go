package cli

import (
	"github.com/spf13/cobra"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:     "index",
	Aliases: []string{"embed"},
	Short:   "Embed chunks not yet in the index",
	Long: `Reads the chunk log, skips every chunk whose identity is already recorded in
embedded_ids.json, and embeds the rest. Running it twice in a row embeds
nothing the second time.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "List identities of embedded chunks",
	Args:  cobra.NoArgs,
	RunE:  runIDs,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(idsCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	stats, err := indexService.Index(cmd.Context())
	if err != nil {
		return err
	}

	if indexJSON {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Read: %d  Skipped: %d  New: %d  Embedded: %d\n",
		stats.TotalRead, stats.Skipped, stats.NewFound, stats.EmbeddedNow)
	cmd.Println(stats.Message)
	return nil
}

func runIDs(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	ids, err := indexService.KnownIDs(cmd.Context())
	if err != nil {
		return err
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}
