package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var modelsJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List selectable models",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "output models as JSON")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, _ []string) error {
	if rephraseService == nil {
		return errors.New("rephrase service not configured")
	}

	models := rephraseService.Models()
	out := cmd.OutOrStdout()

	if modelsJSON {
		data, err := json.MarshalIndent(models, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal models: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	defaultModel := rephraseService.Defaults().Model
	for _, m := range models {
		marker := " "
		if m.ID == defaultModel {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-40s %s (%d tokens)\n", marker, m.ID, m.Name, m.ContextSize)
	}
	return nil
}
