package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minju-kim98/personal-ai-hub/internal/api"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := LoadConfig()
		if cfg.SecretKey == "" {
			return fmt.Errorf("SECRET_KEY is required")
		}
		token, err := api.NewAuthenticator(cfg.SecretKey).Issue(tokenUser, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "User id to put in the subject claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tokenCmd)
}
