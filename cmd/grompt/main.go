// Command grompt rephrases a free-form request into a structured prompt.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	_ "go.uber.org/automaxprocs"

	"github.com/custodia-labs/grompt/internal/adapters/driven/config/env"
	"github.com/custodia-labs/grompt/internal/adapters/driven/config/file"
	"github.com/custodia-labs/grompt/internal/adapters/driven/llm/groq"
	"github.com/custodia-labs/grompt/internal/adapters/driving/cli"
	"github.com/custodia-labs/grompt/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// .env only fills variables the environment does not already set.
	if err := env.LoadDotEnv(); err != nil {
		return fail("loading .env: %v", err)
	}

	fileStore, err := file.NewConfigStore("")
	if err != nil {
		return fail("config: %v", err)
	}
	store, err := env.NewConfigStore(fileStore)
	if err != nil {
		return fail("config: %v", err)
	}

	settingsService := services.NewSettingsService(store)
	settings, err := settingsService.Get()
	if err != nil {
		return fail("config: %v", err)
	}

	client := groq.NewClient(groq.Config{
		BaseURL: settings.Provider.ResolvedBaseURL(),
		Timeout: settings.Provider.Timeout,
	})
	rephraseService := services.NewRephraseService(client, settings.Defaults)

	cli.SetVersion(version)
	cli.SetSettings(settings)
	cli.SetSettingsService(settingsService)
	cli.SetRephraseService(rephraseService)

	return cli.Execute()
}

func fail(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	color.New(color.FgRed).Fprintln(os.Stderr, "Error: "+err.Error())
	return err
}
