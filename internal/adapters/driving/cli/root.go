// Package cli provides the cobra command tree for grompt.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
	"github.com/custodia-labs/grompt/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by main.
var (
	rephraseService driving.RephraseService
	settingsService driving.SettingsService
	appSettings     *domain.Settings
)

var (
	rephraseModel       string
	rephraseTemperature float64
	rephraseMaxTokens   int
	rephraseRaw         bool
	rephraseAskKey      bool
	verbose             bool
)

var rootCmd = &cobra.Command{
	Use:   "grompt [prompt]",
	Short: "Rephrase a prompt into a clearer, more effective one",
	Long: `Grompt rewrites a free-form request into a well-structured prompt
using a hosted LLM (Groq by default).

The API key is read from GROQ_API_KEY, from the environment or a .env file
in the current directory. It is never written to disk.

Examples:
  grompt "write a poem about the sea"
  grompt --model llama3-8b-8192 --temperature 0.2 "summarise this RFC"
  grompt --raw "explain TCP" | pbcopy`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runRephrase,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")

	flags := rootCmd.Flags()
	flags.StringVarP(&rephraseModel, "model", "m", "", "model to use (default from configuration)")
	flags.Float64VarP(&rephraseTemperature, "temperature", "t", 0, "sampling temperature 0.0-1.0 (default from configuration)")
	flags.IntVar(&rephraseMaxTokens, "max-tokens", 0, "maximum tokens to generate (default from configuration)")
	flags.BoolVar(&rephraseRaw, "raw", false, "print only the rephrased prompt")
	flags.BoolVar(&rephraseAskKey, "ask-key", false, "prompt for the API key when it is not in the environment")
	flags.SetNormalizeFunc(normalizeFlagName)
}

// normalizeFlagName accepts snake_case spellings such as --max_tokens.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// SetVersion sets the version reported by the version command and the API.
func SetVersion(v string) {
	version = v
}

// SetRephraseService sets the service used by every front end.
func SetRephraseService(svc driving.RephraseService) {
	rephraseService = svc
}

// SetSettingsService sets the service used by the config commands.
func SetSettingsService(svc driving.SettingsService) {
	settingsService = svc
}

// SetSettings sets the settings snapshot built at startup.
func SetSettings(s *domain.Settings) {
	appSettings = s
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		printError(cmd.ErrOrStderr(), err)
	}
	return err
}

func runRephrase(cmd *cobra.Command, args []string) error {
	if rephraseService == nil {
		return errors.New("rephrase service not configured")
	}

	req := rephraseService.Defaults().NewRequest(args[0], os.Getenv(credentialEnv()))

	flags := cmd.Flags()
	if flags.Changed("model") {
		req.Model = rephraseModel
	}
	if flags.Changed("temperature") {
		req.Temperature = rephraseTemperature
	}
	if flags.Changed("max-tokens") {
		req.MaxTokens = rephraseMaxTokens
	}

	if req.Credential == "" && rephraseAskKey {
		key, err := readCredential(cmd)
		if err != nil {
			return &rephraseError{err: err}
		}
		req.Credential = key
	}

	result, err := rephraseService.Rephrase(cmd.Context(), req)
	if err != nil {
		return &rephraseError{err: err}
	}

	out := cmd.OutOrStdout()
	if !rephraseRaw {
		fmt.Fprintln(out, "Rephrased prompt:")
	}
	fmt.Fprintln(out, result)
	return nil
}

// readCredential asks for the API key without echoing it when stdin is a
// terminal, and reads a plain line otherwise.
func readCredential(cmd *cobra.Command) (string, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", credentialEnv())

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		key, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return strings.TrimSpace(string(key)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// rephraseError marks a failure of the rephrase call so it is reported with
// the rephrase wording rather than as a usage error.
type rephraseError struct {
	err error
}

func (e *rephraseError) Error() string { return e.err.Error() }

func (e *rephraseError) Unwrap() error { return e.err }

// formatError renders err the way the terminal shows it.
func formatError(err error) string {
	var re *rephraseError
	if !errors.As(err, &re) {
		return "Error: " + err.Error()
	}
	if domain.Classify(err) == nil && !errors.Is(err, domain.ErrInvalidInput) {
		return "An unexpected error occurred: " + re.err.Error()
	}
	return "Error: " + domain.Describe(re.err, provider(), credentialHint())
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintln(w, formatError(err))
}

func provider() domain.Provider {
	if appSettings != nil && appSettings.Provider.Name.IsValid() {
		return appSettings.Provider.Name
	}
	return domain.ProviderGroq
}

// credentialEnv is the variable the credential is read from.
func credentialEnv() string {
	return provider().CredentialEnv()
}

func credentialHint() string {
	return credentialEnv() + " must be set in the environment or in a .env file"
}
