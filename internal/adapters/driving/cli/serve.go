package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grompt/internal/adapters/driving/api"
	"github.com/custodia-labs/grompt/internal/core/domain"
	"github.com/custodia-labs/grompt/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP rephrase API",
	Long: `Start an HTTP server exposing the rephrase endpoint.

Endpoints:
  POST /rephrase   {"prompt": "..."} with "Authorization: Bearer <API key>"
  GET  /health     liveness and active defaults
  GET  /models     selectable models
  GET  /metrics    Prometheus metrics

Each request supplies its own API key; the server holds none.
The server stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from configuration, :5000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if rephraseService == nil {
		return errors.New("rephrase service not configured")
	}

	settings := domain.DefaultSettings()
	if appSettings != nil {
		settings = *appSettings
	}
	if cmd.Flags().Changed("addr") {
		settings.Server.Addr = serveAddr
	}

	server, err := api.NewServer(rephraseService, api.Config{
		Server:   settings.Server,
		Provider: settings.Provider.Name,
		Version:  version,
		Logger:   logger.NewStructured(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
