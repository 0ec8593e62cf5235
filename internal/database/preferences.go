// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/grubsync/internal/models"
)

// UpsertPreference stores p, replacing any previous submission of the same
// user for the same group.
func (db *DB) UpsertPreference(ctx context.Context, p *models.MemberPreference) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "preferences", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	cuisines, err := encodeList(p.Cuisines)
	if err != nil {
		return fmt.Errorf("encode cuisines: %w", err)
	}
	dietary, err := encodeList(p.DietaryRestrictions)
	if err != nil {
		return fmt.Errorf("encode dietary restrictions: %w", err)
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = db.now().UTC()
	}

	var lat, lng sql.NullFloat64
	if p.Coordinates != nil {
		lat = sql.NullFloat64{Float64: p.Coordinates.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: p.Coordinates.Longitude, Valid: true}
	}

	query := `
		INSERT INTO preferences (
			user_id, group_id, cuisines, dietary_restrictions, spice_level,
			budget, location, latitude, longitude, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, group_id) DO UPDATE SET
			cuisines = EXCLUDED.cuisines,
			dietary_restrictions = EXCLUDED.dietary_restrictions,
			spice_level = EXCLUDED.spice_level,
			budget = EXCLUDED.budget,
			location = EXCLUDED.location,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = EXCLUDED.updated_at
	`
	if _, err = db.conn.ExecContext(ctx, query,
		p.UserID, p.GroupID, cuisines, dietary, p.SpiceLevel,
		string(p.Budget), p.Location, lat, lng, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// ListPreferences returns every submission for the group, ordered by the
// submitting member's join order.
func (db *DB) ListPreferences(ctx context.Context, groupID string) (prefs []models.MemberPreference, err error) {
	start := time.Now()
	defer func() { observe("select", "preferences", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT p.user_id, p.group_id, p.cuisines, p.dietary_restrictions, p.spice_level,
		       p.budget, p.location, p.latitude, p.longitude, p.updated_at
		FROM preferences p
		LEFT JOIN group_members m ON m.group_id = p.group_id AND m.user_id = p.user_id
		WHERE p.group_id = ?
		ORDER BY COALESCE(m.join_order, 2147483647), p.updated_at, p.user_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("select preferences: %w", err)
	}
	defer closeWithLog(rows, "preference rows")

	for rows.Next() {
		var (
			p                 models.MemberPreference
			cuisines, dietary string
			budget            string
			lat, lng          sql.NullFloat64
		)
		if err := rows.Scan(&p.UserID, &p.GroupID, &cuisines, &dietary, &p.SpiceLevel,
			&budget, &p.Location, &lat, &lng, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		if p.Cuisines, err = decodeList(cuisines); err != nil {
			return nil, fmt.Errorf("decode cuisines for %s: %w", p.UserID, err)
		}
		if p.DietaryRestrictions, err = decodeList(dietary); err != nil {
			return nil, fmt.Errorf("decode dietary restrictions for %s: %w", p.UserID, err)
		}
		p.Budget = models.BudgetTier(budget)
		if lat.Valid && lng.Valid {
			p.Coordinates = &models.Coordinate{Latitude: lat.Float64, Longitude: lng.Float64}
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return prefs, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	return string(b), err
}

func decodeList(raw string) ([]string, error) {
	var values []string
	if raw == "" {
		return values, nil
	}
	err := json.Unmarshal([]byte(raw), &values)
	return values, err
}
