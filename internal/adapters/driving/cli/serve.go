package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitrep/internal/adapters/driving/httpserver"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API",
	Long: `Starts the HTTP API that answers POST /api/brief requests.

The server also exposes GET /healthz and GET /metrics (Prometheus).
When a settings file is configured it is watched for changes, so new
risk thresholds apply without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, store, err := buildServices()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := store.Watch(ctx); err != nil {
		return fmt.Errorf("watching settings: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = store.Settings().Server.Listen
	}

	handler := httpserver.NewHandler(svc, log)
	return httpserver.NewServer(addr, handler, log).Run(ctx)
}
