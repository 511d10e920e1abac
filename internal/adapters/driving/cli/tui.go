package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragline/internal/adapters/driving/tui"
	"github.com/custodia-labs/ragline/internal/core/domain"
)

var tuiTopK int

// runTUIApp starts the program. Tests replace it to avoid taking the terminal.
var runTUIApp = func(a *tui.App) error {
	return a.Run()
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Ask questions in the chat view and read the answer with numbered sources,
inspect raw retrieval hits, or run an index pass from the menu.

Controls:
  ↑/k, ↓/j   Navigate
  Enter      Send / Select
  PgUp/PgDn  Scroll the transcript
  Ctrl+L     Clear the transcript
  Esc        Back
  Ctrl+C     Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVarP(&tuiTopK, "top-k", "k", domain.DefaultTopK, "chunks retrieved per question")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if err := ensureServices(cmd); err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(chatService, retrievalService, indexService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context()).WithTopK(tuiTopK)

	if err := runTUIApp(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
