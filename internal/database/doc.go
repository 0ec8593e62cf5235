// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package database persists groups, member preferences and the latest
// recommendation of each group.
//
// # Overview
//
// Two backends implement the Store interface:
//   - DB (this package): embedded DuckDB via github.com/duckdb/duckdb-go/v2,
//     the default for single-node deployments and tests (":memory:").
//   - postgres.Store (subpackage postgres): PostgreSQL via jackc/pgx/v5
//     connection pools, selected with database.driver=postgres.
//
// Open picks the backend from config.DatabaseConfig.
//
// # Files
//
//   - database.go: lifecycle (open, pool settings, ping, checkpoint, close)
//   - database_schema.go: create-if-not-exists tables and indexes
//   - groups.go: groups and membership
//   - preferences.go: per-member preference upserts
//   - recommendations.go: latest recommendation per group
//   - store.go: the Store interface, Open and the recommendation sink
//
// # Data Model
//
// List-valued preference fields (cuisines, dietary restrictions) and the
// stored recommendation payload are kept as JSON text encoded with
// goccy/go-json, so both backends share one representation.
//
// # Errors
//
// Lookups of unknown groups return an error matching models.ErrNotFound.
// Every other failure is wrapped with the failing operation and surfaces to
// API clients as an internal error.
//
// # Metrics
//
// Every query records grubsync_db_query_duration_seconds and, on failure,
// grubsync_db_query_errors_total labelled by operation and table.
package database
