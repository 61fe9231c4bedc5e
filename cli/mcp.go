// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server on stdio for desktop assistant integration
package cli

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/harperreed/marketmind/handlers"
)

func (r *Runner) newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.bootstrap(cmd.Context(), bootOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			a.logger.Info("starting MCP server")
			server := handlers.NewServer(a.svc, a.cfg.Models, r.version)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
