package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitrep/internal/adapters/driven/config/env"
	"github.com/custodia-labs/sitrep/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/sitrep/internal/connectors/salesforce"
	"github.com/custodia-labs/sitrep/internal/connectors/servicenow"
	"github.com/custodia-labs/sitrep/internal/connectors/sharepoint"
	"github.com/custodia-labs/sitrep/internal/core/domain"
	"github.com/custodia-labs/sitrep/internal/core/ports/driven"
	"github.com/custodia-labs/sitrep/internal/normalisers/pdf"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check credentials and extraction support",
	Long: `Reports which source systems have complete credentials in the
environment and whether PDF extraction is available. Nothing is
contacted; this only inspects the local configuration.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	creds := env.NewResolver()

	checks := []struct {
		name string
		load func(driven.CredentialSource) error
	}{
		{"ServiceNow", func(c driven.CredentialSource) error { _, err := servicenow.LoadConfig(c); return err }},
		{"Salesforce", func(c driven.CredentialSource) error { _, err := salesforce.LoadConfig(c); return err }},
		{"SharePoint", func(c driven.CredentialSource) error { _, err := sharepoint.LoadConfig(c); return err }},
	}

	cmd.Println("Configuration check:")
	cmd.Println()

	configured := 0
	for _, check := range checks {
		if err := check.load(creds); err != nil {
			cmd.Printf("  %-11s %s\n", check.name, describeConfigError(err))
			continue
		}
		configured++
		cmd.Printf("  %-11s OK\n", check.name)
	}

	if _, err := gemini.LoadConfig(creds); err != nil {
		cmd.Printf("  %-11s not configured (optional; briefs stay deterministic)\n", "Gemini")
	} else {
		cmd.Printf("  %-11s OK\n", "Gemini")
	}

	if err := pdf.CheckAvailable(); err != nil {
		cmd.Printf("  %-11s %v\n", "PDF", err)
		cmd.Printf("  %-11s %s\n", "", pdf.InstallInstructions())
	} else {
		cmd.Printf("  %-11s pdftotext available\n", "PDF")
	}

	if configured == 0 {
		return errors.New("no source systems are configured")
	}
	return nil
}

func describeConfigError(err error) string {
	var missing *domain.MissingKeysError
	if errors.As(err, &missing) {
		return "missing " + strings.Join(missing.Keys, ", ")
	}
	return err.Error()
}
