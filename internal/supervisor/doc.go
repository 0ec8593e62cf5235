// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

/*
Package supervisor runs GrubSync's long-lived services under a suture v4
supervisor tree.

	RootSupervisor ("grubsync")
	├── DataSupervisor ("data-layer")
	│   └── CheckpointService (DuckDB only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── events.Publisher (if kafka.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with backoff by its own layer; the other
layers keep running. Supervisor events are logged through sutureslog using
the slog adapter from the logging package.
*/
package supervisor
