package cli

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/core/ports/driving"
)

// mockRephraseService implements driving.RephraseService for CLI tests.
type mockRephraseService struct {
	RephraseFunc func(ctx context.Context, req domain.RephraseRequest) (string, error)
	defaults     domain.Defaults
	lastReq      domain.RephraseRequest
	calls        atomic.Int32
}

func (m *mockRephraseService) Rephrase(ctx context.Context, req domain.RephraseRequest) (string, error) {
	m.calls.Add(1)
	m.lastReq = req
	if req.Credential == "" {
		return "", domain.NewCompletionError(domain.ErrMissingCredential, "", nil)
	}
	if m.RephraseFunc != nil {
		return m.RephraseFunc(ctx, req)
	}
	return "A structured poem prompt...", nil
}

func (m *mockRephraseService) Defaults() domain.Defaults {
	if m.defaults.Model == "" {
		return domain.DefaultSettings().Defaults
	}
	return m.defaults
}

func (m *mockRephraseService) Models() []domain.Model {
	return domain.SupportedModels()
}

// useServices installs the given services for one test and restores the
// previous ones afterwards.
func useServices(t *testing.T, rephrase driving.RephraseService, settings driving.SettingsService, s *domain.Settings) {
	t.Helper()
	prevRephrase, prevSettings, prevApp := rephraseService, settingsService, appSettings
	rephraseService, settingsService, appSettings = rephrase, settings, s
	t.Cleanup(func() {
		rephraseService, settingsService, appSettings = prevRephrase, prevSettings, prevApp
	})
}

// resetFlags clears values and Changed state left by earlier executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the command tree through Execute and captures both streams.
func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	noColor := color.NoColor
	color.NoColor = true

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
		color.NoColor = noColor
	})

	err = Execute()
	return out.String(), errOut.String(), err
}
