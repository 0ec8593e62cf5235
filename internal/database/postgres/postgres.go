// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package postgres implements the preference store on PostgreSQL using
// jackc/pgx connection pools. List columns and recommendation payloads are
// stored as JSONB.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/metrics"
	"github.com/tomtom215/grubsync/internal/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		join_order INTEGER NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (group_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		user_id TEXT NOT NULL,
		group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		cuisines JSONB NOT NULL,
		dietary_restrictions JSONB NOT NULL,
		spice_level INTEGER NOT NULL,
		budget TEXT NOT NULL,
		location TEXT NOT NULL,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, group_id)
	)`,
	`CREATE TABLE IF NOT EXISTS recommendations (
		group_id TEXT PRIMARY KEY REFERENCES groups(id) ON DELETE CASCADE,
		payload JSONB NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_preferences_group ON preferences(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)`,
}

// ErrNoRecommendation is returned when a group has no stored result yet.
var ErrNoRecommendation = models.NewError(models.KindNotFound, "no recommendations generated for this group yet")

// Store is a PostgreSQL-backed preference store.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// New connects to dsn, sizes the pool and creates the schema.
func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Str("dsn", logging.SanitizeDSN(dsn)).Msg("PostgreSQL connect failed")
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &Store{pool: pool, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logging.Info().
		Str("host", cfg.ConnConfig.Host).
		Str("database", cfg.ConnConfig.Database).
		Int32("max_conns", cfg.MaxConns).
		Msg("PostgreSQL store ready")
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func observe(operation, table string, start time.Time, err error) {
	if models.KindOf(err) == models.KindNotFound {
		err = nil
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}

// CreateGroup inserts the group and its members, owner first.
func (s *Store) CreateGroup(ctx context.Context, g *models.Group) (err error) {
	start := time.Now()
	defer func() { observe("insert", "groups", start, err) }()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now().UTC()
	}
	g.Members = ownerFirst(g.OwnerID, g.Members)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx,
		`INSERT INTO groups (id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`,
		g.ID, g.Name, g.OwnerID, g.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}

	batch := &pgx.Batch{}
	for i, userID := range g.Members {
		batch.Queue(
			`INSERT INTO group_members (group_id, user_id, join_order, joined_at) VALUES ($1, $2, $3, $4)`,
			g.ID, userID, i, g.CreatedAt,
		)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert members: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit group: %w", err)
	}
	return nil
}

func ownerFirst(owner string, members []string) []string {
	out := []string{owner}
	seen := map[string]bool{owner: true}
	for _, m := range members {
		if m != "" && !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// GetGroup loads a group with its members in join order.
func (s *Store) GetGroup(ctx context.Context, groupID string) (g *models.Group, err error) {
	start := time.Now()
	defer func() { observe("select", "groups", start, err) }()
	return getGroup(ctx, s.pool, groupID)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func getGroup(ctx context.Context, q querier, groupID string) (*models.Group, error) {
	g := &models.Group{}
	err := q.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at FROM groups WHERE id = $1`, groupID,
	).Scan(&g.ID, &g.Name, &g.OwnerID, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select group: %w", err)
	}

	rows, err := q.Query(ctx,
		`SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY join_order, joined_at, user_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan members: %w", err)
	}
	g.Members = members
	return g, nil
}

// AddMember appends userID to the group. Joining twice is a no-op.
func (s *Store) AddMember(ctx context.Context, groupID, userID string) (g *models.Group, err error) {
	start := time.Now()
	defer func() { observe("insert", "group_members", start, err) }()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize joins of the same group so join_order stays dense.
	if _, err = tx.Exec(ctx, `SELECT 1 FROM groups WHERE id = $1 FOR UPDATE`, groupID); err != nil {
		return nil, fmt.Errorf("lock group: %w", err)
	}

	g, err = getGroup(ctx, tx, groupID)
	if err != nil {
		return nil, err
	}
	if g.HasMember(userID) {
		return g, tx.Commit(ctx)
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id, join_order, joined_at)
		SELECT $1, $2, COALESCE(MAX(join_order), -1) + 1, $3 FROM group_members WHERE group_id = $1`,
		groupID, userID, s.now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit member: %w", err)
	}

	g.Members = append(g.Members, userID)
	return g, nil
}

// UpsertPreference stores p, replacing the user's previous submission.
func (s *Store) UpsertPreference(ctx context.Context, p *models.MemberPreference) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "preferences", start, err) }()

	cuisines, err := encodeList(p.Cuisines)
	if err != nil {
		return fmt.Errorf("encode cuisines: %w", err)
	}
	dietary, err := encodeList(p.DietaryRestrictions)
	if err != nil {
		return fmt.Errorf("encode dietary restrictions: %w", err)
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now().UTC()
	}

	var lat, lng *float64
	if p.Coordinates != nil {
		lat, lng = &p.Coordinates.Latitude, &p.Coordinates.Longitude
	}

	if _, err = s.pool.Exec(ctx, `
		INSERT INTO preferences (
			user_id, group_id, cuisines, dietary_restrictions, spice_level,
			budget, location, latitude, longitude, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, group_id) DO UPDATE SET
			cuisines = EXCLUDED.cuisines,
			dietary_restrictions = EXCLUDED.dietary_restrictions,
			spice_level = EXCLUDED.spice_level,
			budget = EXCLUDED.budget,
			location = EXCLUDED.location,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.GroupID, cuisines, dietary, p.SpiceLevel,
		string(p.Budget), p.Location, lat, lng, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

// ListPreferences returns the group's submissions in member join order.
func (s *Store) ListPreferences(ctx context.Context, groupID string) (prefs []models.MemberPreference, err error) {
	start := time.Now()
	defer func() { observe("select", "preferences", start, err) }()

	rows, err := s.pool.Query(ctx, `
		SELECT p.user_id, p.group_id, p.cuisines::text, p.dietary_restrictions::text, p.spice_level,
		       p.budget, p.location, p.latitude, p.longitude, p.updated_at
		FROM preferences p
		LEFT JOIN group_members m ON m.group_id = p.group_id AND m.user_id = p.user_id
		WHERE p.group_id = $1
		ORDER BY COALESCE(m.join_order, 2147483647), p.updated_at, p.user_id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("select preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                 models.MemberPreference
			cuisines, dietary string
			budget            string
			lat, lng          *float64
		)
		if err := rows.Scan(&p.UserID, &p.GroupID, &cuisines, &dietary, &p.SpiceLevel,
			&budget, &p.Location, &lat, &lng, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		if err := json.Unmarshal([]byte(cuisines), &p.Cuisines); err != nil {
			return nil, fmt.Errorf("decode cuisines for %s: %w", p.UserID, err)
		}
		if err := json.Unmarshal([]byte(dietary), &p.DietaryRestrictions); err != nil {
			return nil, fmt.Errorf("decode dietary restrictions for %s: %w", p.UserID, err)
		}
		p.Budget = models.BudgetTier(budget)
		if lat != nil && lng != nil {
			p.Coordinates = &models.Coordinate{Latitude: *lat, Longitude: *lng}
		}
		prefs = append(prefs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return prefs, nil
}

// SaveRecommendation replaces the group's latest stored result.
func (s *Store) SaveRecommendation(ctx context.Context, r *models.RecommendationResult) (err error) {
	start := time.Now()
	defer func() { observe("upsert", "recommendations", start, err) }()

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode recommendation: %w", err)
	}
	updated := r.GeneratedAt
	if updated.IsZero() {
		updated = s.now().UTC()
	}

	if _, err = s.pool.Exec(ctx, `
		INSERT INTO recommendations (group_id, payload, last_updated) VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (group_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			last_updated = EXCLUDED.last_updated`,
		r.GroupID, string(payload), updated,
	); err != nil {
		return fmt.Errorf("upsert recommendation: %w", err)
	}
	return nil
}

// LatestRecommendation returns the most recently saved result for the group.
func (s *Store) LatestRecommendation(ctx context.Context, groupID string) (rec *models.StoredRecommendation, err error) {
	start := time.Now()
	defer func() { observe("select", "recommendations", start, err) }()

	var payload string
	rec = &models.StoredRecommendation{GroupID: groupID}
	err = s.pool.QueryRow(ctx,
		`SELECT payload::text, last_updated FROM recommendations WHERE group_id = $1`, groupID,
	).Scan(&payload, &rec.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
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

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	return string(b), err
}
