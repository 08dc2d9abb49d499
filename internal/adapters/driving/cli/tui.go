package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grompt/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive prompt optimizer",
	Long: `Launch the interactive terminal form for grompt.

Fill in the API key, the prompt, the model, the temperature and the token
budget, then submit to see the optimized prompt below the form. The key
field is prefilled from GROQ_API_KEY when it is set and is never saved.

Controls:
  Tab / Shift+Tab  - Move between fields
  ←/→, ↑/↓         - Change model or temperature
  Ctrl+S           - Optimize
  F1               - Toggle help
  Ctrl+C           - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if rephraseService == nil {
		return errors.New("rephrase service not configured")
	}

	ports := tui.NewPorts(rephraseService, provider(), os.Getenv(credentialEnv()))

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
