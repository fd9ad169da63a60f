package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time:
//
//	go build -ldflags "-X main.version=v1.2.0" ./cmd/datanest
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the datanest version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "datanest", version)
	},
}
