package main

import (
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/sakif/datanest/internal/mcptools"
	"github.com/sakif/datanest/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the snippet catalog to AI assistants over MCP (stdio)",
	Long: `Runs an MCP server on stdin/stdout. Point an MCP-capable assistant at
"datanest mcp" to let it search, read and save snippets.

Logs go to stderr; stdout belongs to the MCP transport.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stderr)

		backend, err := server.Open(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		s := mcptools.NewServer(version, mcptools.Services{
			Snippets:   backend.Snippets,
			Categories: backend.Categories,
			Tags:       backend.Tags,
			Stats:      backend.Stats,
		})

		logger.Info("mcp server ready", "database", cfg.DBPath)
		// ServeStdio handles SIGINT/SIGTERM itself.
		return mcpserver.ServeStdio(s)
	},
}
