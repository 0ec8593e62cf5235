// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/grubsync/internal/models"
)

// CreateGroup inserts a group and its initial members. The owner is always
// stored first, followed by the remaining members in order.
func (db *DB) CreateGroup(ctx context.Context, g *models.Group) (err error) {
	start := time.Now()
	defer func() { observe("insert", "groups", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = db.now().UTC()
	}
	g.Members = ownerFirst(g.OwnerID, g.Members)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, owner_id, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.Name, g.OwnerID, g.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}

	for i, userID := range g.Members {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO group_members (group_id, user_id, join_order, joined_at) VALUES (?, ?, ?, ?)`,
			g.ID, userID, i, g.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert member %s: %w", userID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit group: %w", err)
	}
	return nil
}

// ownerFirst returns members with the owner first and no duplicates.
func ownerFirst(owner string, members []string) []string {
	out := make([]string, 0, len(members)+1)
	seen := map[string]bool{owner: true}
	out = append(out, owner)
	for _, m := range members {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// GetGroup loads a group with its members in join order.
func (db *DB) GetGroup(ctx context.Context, groupID string) (g *models.Group, err error) {
	start := time.Now()
	defer func() { observe("select", "groups", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	return db.getGroup(ctx, db.conn, groupID)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (db *DB) getGroup(ctx context.Context, q queryer, groupID string) (*models.Group, error) {
	g := &models.Group{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at FROM groups WHERE id = ?`, groupID,
	).Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select group: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT user_id FROM group_members WHERE group_id = ? ORDER BY join_order, joined_at, user_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer closeWithLog(rows, "member rows")

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		g.Members = append(g.Members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return g, nil
}

// AddMember appends userID to the group. Joining twice is a no-op.
func (db *DB) AddMember(ctx context.Context, groupID, userID string) (g *models.Group, err error) {
	start := time.Now()
	defer func() { observe("insert", "group_members", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	g, err = db.getGroup(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	if g.HasMember(userID) {
		err = tx.Commit()
		return g, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, join_order, joined_at)
		 SELECT ?, ?, COALESCE(MAX(join_order), -1) + 1, ? FROM group_members WHERE group_id = ?`,
		groupID, userID, db.now().UTC(), groupID,
	); err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit member: %w", err)
	}

	g.Members = append(g.Members, userID)
	return g, nil
}
