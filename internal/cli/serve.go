package cli

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ppiankov/normregion/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluate_regions tool over MCP stdio",
	Long: `Serve starts a Model Context Protocol server on stdin/stdout exposing
the evaluate_regions tool. Configure it in an MCP client as:

  {"command": "normregion", "args": ["serve"]}

Diagnostics go to stderr; stdout carries only the protocol.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applyLLMFlags(cmd, cfg); err != nil {
			return err
		}

		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "⚙️  normregion MCP server %s on stdio\n", server.Version)
		}

		return mcpserver.ServeStdio(server.New(cfg))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addLLMFlags(serveCmd)
}
