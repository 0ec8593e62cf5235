// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/grubsync/internal/config"
	"github.com/tomtom215/grubsync/internal/database/postgres"
	"github.com/tomtom215/grubsync/internal/metrics"
	"github.com/tomtom215/grubsync/internal/models"
)

// Store is the persistence surface used by the API, the CLI and the
// recommendation engine.
type Store interface {
	CreateGroup(ctx context.Context, g *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	AddMember(ctx context.Context, groupID, userID string) (*models.Group, error)

	UpsertPreference(ctx context.Context, p *models.MemberPreference) error
	ListPreferences(ctx context.Context, groupID string) ([]models.MemberPreference, error)

	SaveRecommendation(ctx context.Context, r *models.RecommendationResult) error
	LatestRecommendation(ctx context.Context, groupID string) (*models.StoredRecommendation, error)

	Ping(ctx context.Context) error
	Close() error
}

var _ Store = (*postgres.Store)(nil)

// Open creates the store selected by cfg.Driver ("duckdb" by default).
func Open(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "", "duckdb":
		return New(cfg)
	case "postgres":
		return postgres.New(ctx, cfg.PostgresDSN, cfg.MaxConns)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// RecommendationSink persists every generated recommendation as the
// group's latest.
type RecommendationSink struct {
	store Store
}

func NewRecommendationSink(store Store) *RecommendationSink {
	return &RecommendationSink{store: store}
}

func (s *RecommendationSink) Name() string { return "database" }

func (s *RecommendationSink) Store(ctx context.Context, r *models.RecommendationResult) error {
	return s.store.SaveRecommendation(ctx, r)
}

// observe records the duration and outcome of one query. Lookups that
// find nothing are not errors.
func observe(operation, table string, start time.Time, err error) {
	if models.KindOf(err) == models.KindNotFound {
		err = nil
	}
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}
