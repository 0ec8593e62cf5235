// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Command grubsync runs the recommendation pipeline offline and issues
// API tokens.
//
//	grubsync recommend --input group.json
//	grubsync token --user alice
//	grubsync version
package main

import (
	"fmt"
	"os"

	"github.com/tomtom215/grubsync/internal/app"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(app.Upstreams{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
