package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/datanest/internal/config"
)

// Global flag values.
var (
	flagConfig string

	// cfg is resolved by PersistentPreRunE so every subcommand can use it.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "datanest",
	Short: "datanest is a personal code-snippet catalog",
	Long: `datanest stores code snippets with categories and tags in a local SQLite
database and serves them over a JSON API (datanest serve) or to AI
assistants over MCP (datanest mcp).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		loaded, err := config.Load(flagConfig, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./datanest.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default: data/datanest.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: info)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger at the configured level.
func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
}
