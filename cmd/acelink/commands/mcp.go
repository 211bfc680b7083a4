package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve link resolution to editors and agents over MCP",
	Long: `Start a Model Context Protocol server on stdin and stdout. Tools cover
finding links in a file, resolving single references, listing routes,
checking the project and generating files.

Example configuration:
  {
    "mcpServers": {
      "acelink": { "command": "acelink", "args": ["mcp", "--root", "/path/to/app"] }
    }
  }`,
	Run: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) {
	// stdout carries the protocol; nothing else may be printed there
	if err := mcp.NewServer(projectRoot).Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "mcp server: %v\n", err)
		os.Exit(1)
	}
}
