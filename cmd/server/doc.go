// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

/*
Package main is the entry point for the GrubSync server.

GrubSync helps a group of people decide where to eat. Members join a group,
submit cuisine, dietary, spice, budget and location preferences, and any
member can ask for a ranked shortlist of restaurants near the middle of the
group.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("grubsync")
	├── DataSupervisor ("data-layer")
	│   └── DuckDB checkpoint service (duckdb driver only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Kafka event publisher (optional)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Environment: optional .env file (godotenv)
 2. Configuration: Koanf v2 with defaults, config file and environment
 3. Logging: zerolog with JSON or console output
 4. Database: DuckDB (default) or PostgreSQL
 5. Result sinks: database, Kafka and S3-compatible archive
 6. Recommendation pipeline: geocoder and search provider behind circuit breakers
 7. Authentication: JWT or no-auth mode
 8. HTTP Server: Chi router with middleware stack

# Configuration

Required for a working pipeline:
  - GOOGLE_MAPS_API_KEY (or GEOCODING_PROVIDER=nominatim)
  - YELP_API_KEY
  - JWT_SECRET when AUTH_MODE=jwt (the default)

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service, the HTTP server drains in-flight requests and the database is
closed last.

# Example Usage

	export AUTH_MODE=none
	export GOOGLE_MAPS_API_KEY=...
	export YELP_API_KEY=...
	./grubsync-server
*/
package main
