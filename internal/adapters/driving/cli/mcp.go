package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitrep/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Expose the brief pipeline to AI assistants over the Model Context Protocol.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve the executive_brief tool over the Model Context Protocol.

The default transport is stdio JSON-RPC, which is what Claude Desktop and
most MCP clients expect. Tool calls run the same settle-all pipeline as
the REST API and return the same response envelope.

Pass --port to serve MCP over HTTP instead, for the MCP Inspector or for
clients on another host.

Examples:
  # stdio (Claude Desktop)
  sitrep mcp serve

  # HTTP on port 8080 (MCP Inspector)
  sitrep mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "sitrep": {
        "command": "/path/to/sitrep",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	svc, _, err := buildServices()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{Brief: svc}, log)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
