// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package services adapts GrubSync components to suture.Service.
//
// Each wrapper turns a component's own lifecycle (a blocking HTTP Serve loop,
// periodic maintenance) into Serve(ctx) error and a String() name for
// supervisor logs.
package services
