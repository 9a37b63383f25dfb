package main

import (
	"fmt"

	"agent-kb/pkg/auth"
	"agent-kb/pkg/config"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		businessID string
		userID     string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a business (local development)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			token, err := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration).GenerateToken(userID, businessID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVarP(&businessID, "business", "b", "", "business id the token acts for")
	cmd.Flags().StringVarP(&userID, "user", "u", "operator", "user id placed in the token")
	_ = cmd.MarkFlagRequired("business")
	return cmd
}
