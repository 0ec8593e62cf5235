// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/grubsync/internal/app"
	"github.com/tomtom215/grubsync/internal/logging"
)

// newRootCmd builds the command tree. Non-nil upstreams replace the
// configured geocoder and search provider.
func newRootCmd(up app.Upstreams) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "grubsync",
		Short: "Group dining recommendations from the command line",
		Long: `grubsync runs the GrubSync recommendation pipeline against a group
described in a JSON file, without the HTTP server. It reads the same
configuration file and environment variables as the server.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(logging.Config{
				Level:  logLevel,
				Format: "console",
				Output: cmd.ErrOrStderr(),
			})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newRecommendCmd(up),
		newTokenCmd(),
		newVersionCmd(),
	)
	return root
}
