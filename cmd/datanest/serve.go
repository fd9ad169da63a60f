package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/datanest/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stdout)

		// Ctrl+C or SIGTERM cancels ctx, which starts the graceful drain.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		backend, err := server.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}

		srv, err := server.New(cfg, backend, logger)
		if err != nil {
			backend.Close()
			return fmt.Errorf("create server: %w", err)
		}

		// Start closes the backend once it returns.
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP port (default: 8080)")
	serveCmd.Flags().Duration("shutdown-timeout", 0, "time allowed for in-flight requests on shutdown (default: 30s)")
}
