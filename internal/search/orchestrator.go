// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/metrics"
	"github.com/tomtom215/grubsync/internal/models"
)

const (
	passPrimary  = "primary"
	passFallback = "fallback"
)

// OrchestratorConfig controls the fan-out and the fallback pass.
type OrchestratorConfig struct {
	CallTimeout   time.Duration
	Concurrency   int
	MinResults    int
	FallbackZones int
	FallbackLimit int
}

// Outcome is the merged result of one orchestrated search.
type Outcome struct {
	Candidates    []models.Candidate
	ZonesSearched int
	ZonesFailed   int
	FallbackUsed  bool

	FallbackZonesSearched int
	FallbackZonesFailed   int
}

// AllFailed reports whether at least one search ran and every search, in
// both passes, returned an error.
func (o Outcome) AllFailed() bool {
	if o.ZonesSearched == 0 || o.ZonesFailed < o.ZonesSearched {
		return false
	}
	return !o.FallbackUsed || o.FallbackZonesFailed == o.FallbackZonesSearched
}

// Orchestrator searches every zone and merges the answers.
type Orchestrator struct {
	searcher Searcher
	cfg      OrchestratorConfig
	logger   zerolog.Logger
}

// NewOrchestrator creates an Orchestrator, filling unset config values with
// a 10s call timeout, concurrency 8, 5 minimum results, 3 fallback zones
// and a fallback limit of 50.
func NewOrchestrator(s Searcher, cfg OrchestratorConfig) *Orchestrator {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.MinResults <= 0 {
		cfg.MinResults = 5
	}
	if cfg.FallbackZones <= 0 {
		cfg.FallbackZones = 3
	}
	if cfg.FallbackLimit <= 0 {
		cfg.FallbackLimit = 50
	}
	return &Orchestrator{
		searcher: s,
		cfg:      cfg,
		logger:   logging.WithComponent("search").With().Str("provider", s.Name()).Logger(),
	}
}

// Search queries each zone concurrently and returns the de-duplicated pool.
// Failed or empty zones contribute nothing. When the pool is smaller than
// MinResults, one broadened pass over the first FallbackZones zones adds
// any IDs not already seen.
func (o *Orchestrator) Search(ctx context.Context, zones []models.Coordinate, f Filters) Outcome {
	out := Outcome{ZonesSearched: len(zones)}

	results, failed := o.searchZones(ctx, zones, f, passPrimary)
	out.ZonesFailed = failed

	seen := make(map[string]struct{})
	out.Candidates = merge(nil, seen, results)

	if len(out.Candidates) < o.cfg.MinResults && len(zones) > 0 {
		fallbackZones := zones[:min(o.cfg.FallbackZones, len(zones))]
		o.logger.Debug().
			Int("found", len(out.Candidates)).
			Int("zones", len(fallbackZones)).
			Msg("Too few candidates, running broadened search")

		results, failed = o.searchZones(ctx, fallbackZones, Broaden(f, o.cfg.FallbackLimit), passFallback)
		out.Candidates = merge(out.Candidates, seen, results)
		out.FallbackUsed = true
		out.FallbackZonesSearched = len(fallbackZones)
		out.FallbackZonesFailed = failed
	}

	return out
}

// searchZones runs one query per zone. Each task writes only its own slot.
func (o *Orchestrator) searchZones(ctx context.Context, zones []models.Coordinate, f Filters, pass string) ([][]models.Candidate, int) {
	results := make([][]models.Candidate, len(zones))
	failures := make([]bool, len(zones))

	var g errgroup.Group
	g.SetLimit(o.cfg.Concurrency)
	for i, zone := range zones {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, o.cfg.CallTimeout)
			defer cancel()

			found, err := o.searcher.Search(callCtx, zone, f)
			switch {
			case err != nil:
				failures[i] = true
				metrics.RecordZoneSearch(pass, "error")
				o.logger.Warn().Err(err).Str("pass", pass).Int("zone", i).Msg("Zone search failed")
			case len(found) == 0:
				metrics.RecordZoneSearch(pass, "empty")
			default:
				results[i] = found
				metrics.RecordZoneSearch(pass, "ok")
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, f := range failures {
		if f {
			failed++
		}
	}
	return results, failed
}

// merge appends candidates with unseen IDs, in zone then provider order.
func merge(pool []models.Candidate, seen map[string]struct{}, results [][]models.Candidate) []models.Candidate {
	for _, zone := range results {
		for i := range zone {
			id := zone[i].ID
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			pool = append(pool, zone[i])
		}
	}
	return pool
}
