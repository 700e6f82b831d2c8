package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitrep/internal/metrics"
)

var briefJSON bool

var briefCmd = &cobra.Command{
	Use:   "brief [question]",
	Short: "Answer one question and print the brief",
	Long: `Fans the question out to every configured source, prints the executive
brief and exits. Missing credentials for a source show up as a FAILED
line in the SOURCE STATUS section, not as a fatal error.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrief,
}

func init() {
	briefCmd.Flags().BoolVar(&briefJSON, "json", false, "output the full response envelope as JSON")
	rootCmd.AddCommand(briefCmd)
}

func runBrief(cmd *cobra.Command, args []string) error {
	svc, _, err := buildServices()
	if err != nil {
		return err
	}

	brief, err := svc.Brief(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("brief failed: %w", err)
	}

	metrics.BriefsGenerated.WithLabelValues("cli").Inc()

	if briefJSON {
		data, err := json.MarshalIndent(brief, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal brief: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(brief.Answer)
	if brief.Polish.Used {
		cmd.Printf("\n(polished by %s)\n", brief.Polish.Model)
	}
	return nil
}
