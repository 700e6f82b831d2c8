// Command sitrep serves executive briefs aggregated from ServiceNow,
// Salesforce and SharePoint.
package main

import (
	"os"

	"github.com/custodia-labs/sitrep/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
