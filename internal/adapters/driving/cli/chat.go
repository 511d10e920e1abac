package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragline/internal/core/domain"
)

var (
	chatTopK int
	chatJSON bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Answer a question from your files",
	Long: `Retrieves the top-k chunks for the question and asks the completion model to
answer using only that context. The chunks used are listed as sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntVarP(&chatTopK, "top-k", "k", domain.DefaultTopK, "number of chunks to ground on (1-20)")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}

	env, err := chatService.Answer(cmd.Context(), args[0], chatTopK)
	if err != nil {
		return err
	}

	if chatJSON {
		return printJSON(cmd, env)
	}

	cmd.Println(env.Answer)
	if len(env.Sources) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range env.Sources {
		cmd.Printf("  [%d] %s\n", i+1, src.DocID)
		cmd.Printf("      %s\n", src.Snippet)
	}
	return nil
}
