package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"video-catalog/config"
	"video-catalog/pkg/auth"
)

// token prints a bearer token for local testing against the API.
func token(config *config.Config) *cobra.Command {
	var (
		userId string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "issue an access token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is required")
			}
			id, err := uuid.Parse(userId)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			signed, err := auth.IssueToken([]byte(config.Auth.JWTSecret), id, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&userId, "user", "", "user id (uuid) placed in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
