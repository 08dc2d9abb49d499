package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grompt/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration",
	Long: `Show and change the settings stored in ~/.grompt/config.toml.

Environment variables (GROMPT_DEFAULT_MODEL, GROMPT_DEFAULT_TEMPERATURE,
GROMPT_DEFAULT_MAX_TOKENS, ...) take precedence over the file. API keys are
never stored; keep them in the environment or a .env file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Long: `Store a setting in the config file.

Keys:
  defaults.model                  model used when none is given
  defaults.temperature            0.0-1.0
  defaults.max_tokens             1-32768
  provider.name                   groq or openai
  provider.base_url               OpenAI-compatible endpoint override
  provider.timeout_seconds        per-request timeout
  server.addr                     listen address for 'grompt serve'
  server.requests_per_minute      per-client limit, 0 disables
  server.max_body_bytes           request body limit
  server.request_timeout_seconds  handler timeout`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Settings")
	fmt.Fprintln(out, "================")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Defaults]")
	fmt.Fprintf(out, "  Model: %s\n", settings.Defaults.Model)
	fmt.Fprintf(out, "  Temperature: %.1f\n", settings.Defaults.Temperature)
	fmt.Fprintf(out, "  Max Tokens: %d\n", settings.Defaults.MaxTokens)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Provider]")
	fmt.Fprintf(out, "  Provider: %s\n", settings.Provider.Name.Description())
	fmt.Fprintf(out, "  Base URL: %s\n", settings.Provider.ResolvedBaseURL())
	fmt.Fprintf(out, "  Timeout: %s\n", settings.Provider.Timeout)
	env := settings.Provider.Name.CredentialEnv()
	fmt.Fprintf(out, "  %s: %s\n", env, logger.Credential(os.Getenv(env)))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Server]")
	fmt.Fprintf(out, "  Address: %s\n", settings.Server.Addr)
	if settings.Server.RequestsPerMinute > 0 {
		fmt.Fprintf(out, "  Rate Limit: %d requests/minute\n", settings.Server.RequestsPerMinute)
	} else {
		fmt.Fprintln(out, "  Rate Limit: disabled")
	}
	fmt.Fprintf(out, "  Max Body: %d bytes\n", settings.Server.MaxBodyBytes)
	fmt.Fprintf(out, "  Request Timeout: %s\n", settings.Server.RequestTimeout)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Config file: %s\n", settingsService.Path())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	fmt.Fprintln(cmd.OutOrStdout(), settingsService.Path())
	return nil
}
