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

	"github.com/goccy/go-json"

	"github.com/tomtom215/grubsync/internal/models"
)

// ErrNoRecommendation is returned when a group has no stored result yet.
var ErrNoRecommendation = models.NewError(models.KindNotFound, "no recommendations generated for this group yet")

// SaveRecommendation replaces the group's latest stored result.
func (db *DB) SaveRecommendation(ctx context.Context, r *models.RecommendationResult) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "recommendations", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode recommendation: %w", err)
	}
	updated := r.GeneratedAt
	if updated.IsZero() {
		updated = db.now().UTC()
	}

	if _, err = db.conn.ExecContext(ctx, `
		INSERT INTO recommendations (group_id, payload, last_updated, requester_id, candidates_found)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (group_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			last_updated = EXCLUDED.last_updated,
			requester_id = EXCLUDED.requester_id,
			candidates_found = EXCLUDED.candidates_found
	`, r.GroupID, string(payload), updated, r.RequesterID, r.Stats.CandidatesFound); err != nil {
		return fmt.Errorf("upsert recommendation: %w", err)
	}
	return nil
}

// LatestRecommendation returns the most recently saved result for the group.
func (db *DB) LatestRecommendation(ctx context.Context, groupID string) (rec *models.StoredRecommendation, err error) {
	start := time.Now()
	defer func() { observe("select", "recommendations", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var payload string
	rec = &models.StoredRecommendation{GroupID: groupID}
	err = db.conn.QueryRowContext(ctx,
		`SELECT payload, last_updated FROM recommendations WHERE group_id = ?`, groupID,
	).Scan(&payload, &rec.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecommendation
	}
	if err != nil {
		return nil, fmt.Errorf("select recommendation: %w", err)
	}

	rec.Result = &models.RecommendationResult{}
	if err = json.Unmarshal([]byte(payload), rec.Result); err != nil {
		return nil, fmt.Errorf("decode recommendation: %w", err)
	}
	return rec, nil
}
