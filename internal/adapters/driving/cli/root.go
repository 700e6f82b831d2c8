// Package cli implements the sitrep command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/sitrep/internal/adapters/driven/config/env"
	"github.com/custodia-labs/sitrep/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sitrep/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/sitrep/internal/connectors/salesforce"
	"github.com/custodia-labs/sitrep/internal/connectors/servicenow"
	"github.com/custodia-labs/sitrep/internal/connectors/sharepoint"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
	"github.com/custodia-labs/sitrep/internal/core/services"
	"github.com/custodia-labs/sitrep/internal/logger"
	"github.com/custodia-labs/sitrep/internal/normalisers"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgPath  string
	logLevel string
	logJSON  bool

	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sitrep",
	Short: "Executive briefs from ServiceNow, Salesforce and SharePoint",
	Long: `sitrep answers free-text questions with a structured executive brief.

Every question fans out to ServiceNow (open high-priority incidents),
Salesforce (pipeline at risk) and SharePoint (relevant documents). The
answer is built deterministically from whatever returned, with per-source
failures reported inside the brief, and optionally polished by Gemini.

Credentials come from the environment; run "sitrep doctor" to see what
is configured.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		l, err := logger.New(logLevel, logJSON)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "settings file (TOML, optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON instead of console text")
}

// Execute runs the root command with signal-aware cancellation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if log != nil {
			log.Sync() //nolint:errcheck
		}
	}()

	return rootCmd.ExecuteContext(ctx)
}

// buildServices wires the connectors and the coordinator from the process
// environment and the optional settings file. The settings store is
// returned so callers can start its watcher.
func buildServices() (*services.BriefService, *file.Store, error) {
	if log == nil {
		log = logger.Nop()
	}

	store, err := file.NewStore(cfgPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}

	creds := env.NewResolver()
	settings := store.Settings()

	// Gemini is optional: without a key the briefs stay deterministic.
	var summariser driven.Summariser
	if cfg, err := gemini.LoadConfig(creds); err == nil {
		svc, err := gemini.NewService(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("configuring Gemini: %w", err)
		}
		summariser = svc
	} else {
		log.Info("Gemini not configured; briefs stay deterministic")
	}

	docOpts := sharepoint.Options{
		Extensions:      settings.Documents.Extensions,
		MaxFiles:        settings.Documents.MaxFiles,
		MaxCharsPerFile: settings.Documents.MaxCharsPerFile,
		SeedFilenames:   settings.Documents.SeedFilenames,
	}

	svc := services.NewBriefService(
		servicenow.New(creds, log),
		salesforce.New(creds, store.AtRiskPolicy(), log),
		sharepoint.New(creds, docOpts, normalisers.DefaultRegistry(nil), summariser, log),
		summariser,
		store,
		log,
	)

	return svc, store, nil
}
