package cmd

import (
	"github.com/repolens/repolens/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the RepoLens MCP server",
	Long:  `Launch an MCP server that allows AI agents to mine repositories and manage analysis jobs via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdio clean for the protocol; all setup logging goes to
		// stderr already.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		orchestrator.Start(rootCtx)
		defer orchestrator.Close()
		return mcp.StartMCPServer(rootCtx, cfg, gitClient, orchestrator, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
