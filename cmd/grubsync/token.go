// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/grubsync/internal/auth"
	"github.com/tomtom215/grubsync/internal/config"
)

func newTokenCmd() *cobra.Command {
	var (
		user   string
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user",
		Long: `token signs a JWT for the given user with the server's secret. The
secret is read from --secret or the JWT_SECRET environment variable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			m, err := auth.NewJWTManager(&config.SecurityConfig{
				JWTSecret:      secret,
				SessionTimeout: ttl,
			})
			if err != nil {
				return err
			}
			token, err := m.GenerateToken(user)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "user ID to embed as the token subject")
	cmd.Flags().StringVar(&secret, "secret", "", "HMAC secret (default: $JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
