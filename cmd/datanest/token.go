package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/datanest/internal/auth"
)

var (
	flagTokenTTL     time.Duration
	flagTokenSubject string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for the write endpoints",
	Long: `Signs a token with the configured api_secret. Send it as
"Authorization: Bearer <token>" on POST/PUT/DELETE requests.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.AuthEnabled() {
			return errors.New("api_secret is not set; write endpoints are open and need no token")
		}

		tokens, err := auth.NewTokenService(cfg.APISecret)
		if err != nil {
			return err
		}

		token, err := tokens.Issue(flagTokenSubject, flagTokenTTL)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&flagTokenTTL, "ttl", auth.DefaultTTL, "token lifetime")
	tokenCmd.Flags().StringVar(&flagTokenSubject, "subject", "operator", "token subject")
}
