// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// Tables:
//   - groups: one row per dining group
//   - group_members: membership in join order (the owner is first)
//   - preferences: one row per (user_id, group_id), list columns as JSON text
//   - recommendations: latest result per group as a JSON payload
var tableQueries = []string{
	`CREATE TABLE IF NOT EXISTS groups (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		owner_id VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		group_id VARCHAR NOT NULL,
		user_id VARCHAR NOT NULL,
		join_order INTEGER NOT NULL,
		joined_at TIMESTAMP NOT NULL,
		PRIMARY KEY (group_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		user_id VARCHAR NOT NULL,
		group_id VARCHAR NOT NULL,
		cuisines VARCHAR NOT NULL,
		dietary_restrictions VARCHAR NOT NULL,
		spice_level INTEGER NOT NULL,
		budget VARCHAR NOT NULL,
		location VARCHAR NOT NULL,
		latitude DOUBLE,
		longitude DOUBLE,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, group_id)
	)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		group_id VARCHAR PRIMARY KEY,
		payload VARCHAR NOT NULL,
		last_updated TIMESTAMP NOT NULL
	)`,
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_preferences_group ON preferences(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)`,
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes for the membership and
// preference lookups.
func (db *DB) createIndexes() error {
	if db.cfg.SkipIndexes {
		return nil
	}

	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
