// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package recommend runs the ranking pipeline: it loads a group and its
// preferences, geocodes member locations, builds the consensus profile,
// searches around the centroid and returns the best-scored restaurants.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/grubsync/internal/consensus"
	"github.com/tomtom215/grubsync/internal/geo"
	"github.com/tomtom215/grubsync/internal/geocode"
	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/metrics"
	"github.com/tomtom215/grubsync/internal/models"
	"github.com/tomtom215/grubsync/internal/scoring"
	"github.com/tomtom215/grubsync/internal/search"
)

// DataProvider loads the inputs of a run. GetGroup must return an error
// matching models.ErrNotFound for unknown groups.
type DataProvider interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListPreferences(ctx context.Context, groupID string) ([]models.MemberPreference, error)
}

// LocationResolver geocodes many addresses at once, preserving order.
type LocationResolver interface {
	ResolveAll(ctx context.Context, addresses []string) []geocode.Resolution
}

// ZoneSearcher searches every zone and returns the merged pool.
type ZoneSearcher interface {
	Search(ctx context.Context, zones []models.Coordinate, f search.Filters) search.Outcome
}

// ResultSink receives every successful result after it is returned.
type ResultSink interface {
	Name() string
	Store(ctx context.Context, result *models.RecommendationResult) error
}

// Engine generates recommendations. It is safe for concurrent use; all
// state lives in the request.
type Engine struct {
	data     DataProvider
	resolver LocationResolver
	searcher ZoneSearcher
	sinks    []ResultSink
	cfg      Config
	now      func() time.Time
}

// NewEngine validates cfg and wires the pipeline.
func NewEngine(data DataProvider, resolver LocationResolver, searcher ZoneSearcher, cfg Config, sinks ...ResultSink) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommend config: %w", err)
	}
	return &Engine{
		data:     data,
		resolver: resolver,
		searcher: searcher,
		sinks:    sinks,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// GenerateRecommendations produces the ranked shortlist for groupID on
// behalf of requesterID.
func (e *Engine) GenerateRecommendations(ctx context.Context, groupID, requesterID string) (*models.RecommendationResult, error) {
	start := time.Now()
	logger := logging.CtxWith(ctx).Str("component", "recommend").Str("group_id", groupID).Logger()

	result, err := e.generate(ctx, groupID, requesterID, &logger)
	duration := time.Since(start)

	if err != nil {
		outcome := string(models.KindOf(err))
		switch {
		case outcome != "":
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			outcome = "timeout"
		default:
			outcome = "error"
		}
		metrics.RecordRecommendation(outcome, duration, 0)
		logger.Info().Err(err).Str("outcome", outcome).Dur("duration", duration).Msg("Recommendation failed")
		return nil, err
	}

	result.Stats.DurationMs = duration.Milliseconds()
	metrics.RecordRecommendation("success", duration, result.Stats.CandidatesFound)
	logger.Info().
		Int("candidates", result.Stats.CandidatesFound).
		Int("returned", len(result.Restaurants)).
		Bool("fallback", result.Stats.FallbackUsed).
		Dur("duration", duration).
		Msg("Recommendation generated")

	e.deliver(ctx, result, &logger)
	return result, nil
}

func (e *Engine) generate(ctx context.Context, groupID, requesterID string, logger *zerolog.Logger) (*models.RecommendationResult, error) {
	group, err := e.data.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("load group: %w", err)
	}
	if !group.HasMember(requesterID) {
		return nil, models.ErrForbidden
	}

	prefs, err := e.data.ListPreferences(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if len(prefs) == 0 {
		return nil, models.ErrNoPreferences
	}
	if !hasPreferenceFrom(prefs, requesterID) {
		return nil, models.ErrMissingOwnPreference
	}

	points := e.resolveLocations(ctx, prefs)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve locations: %w", err)
	}
	if len(points) == 0 {
		return nil, models.ErrNoValidLocations
	}
	centroid, err := geo.Centroid(points)
	if err != nil {
		return nil, err
	}

	profile, err := consensus.Aggregate(prefs)
	if err != nil {
		return nil, err
	}
	topCuisines := consensus.TopCuisines(profile, e.cfg.TopCuisines)

	zones := geo.PlanZones(centroid, e.cfg.RadiusMiles, e.cfg.RingPoints)
	outcome := e.searcher.Search(ctx, zones, e.filters(topCuisines, profile.Budget))
	logger.Debug().
		Int("zones", outcome.ZonesSearched).
		Int("zones_failed", outcome.ZonesFailed).
		Int("candidates", len(outcome.Candidates)).
		Msg("Zone search complete")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search zones: %w", err)
	}

	ranked := e.rank(outcome.Candidates, &profile, centroid)
	if len(ranked) == 0 {
		if outcome.AllFailed() {
			return nil, models.WrapError(models.KindUpstreamUnavailable, "restaurant search unavailable",
				fmt.Errorf("%d of %d zone searches failed", outcome.ZonesFailed+outcome.FallbackZonesFailed,
					outcome.ZonesSearched+outcome.FallbackZonesSearched))
		}
		return nil, models.ErrNoResults
	}

	return &models.RecommendationResult{
		GroupID:     groupID,
		RequesterID: requesterID,
		Profile:     profile,
		Centroid:    centroid,
		Restaurants: ranked,
		Stats: models.RecommendationStats{
			Members:           len(prefs),
			LocationsResolved: len(points),
			Zones:             outcome.ZonesSearched,
			ZonesFailed:       outcome.ZonesFailed,
			CandidatesFound:   len(outcome.Candidates),
			FallbackUsed:      outcome.FallbackUsed,
			TopCuisines:       topCuisines,
			TopBudget:         profile.Budget,
			Centroid:          [2]float64{centroid.Latitude, centroid.Longitude},
		},
		GeneratedAt: e.now().UTC(),
	}, nil
}

func hasPreferenceFrom(prefs []models.MemberPreference, userID string) bool {
	for i := range prefs {
		if prefs[i].UserID == userID {
			return true
		}
	}
	return false
}

// resolveLocations geocodes every member location and keeps the hits.
func (e *Engine) resolveLocations(ctx context.Context, prefs []models.MemberPreference) []models.Coordinate {
	addresses := make([]string, len(prefs))
	for i := range prefs {
		addresses[i] = prefs[i].Location
	}

	resolutions := e.resolver.ResolveAll(ctx, addresses)
	points := make([]models.Coordinate, 0, len(resolutions))
	for _, r := range resolutions {
		if r.OK {
			points = append(points, r.Coordinate)
		}
	}
	return points
}

func (e *Engine) filters(cuisines []string, budget models.BudgetTier) search.Filters {
	return search.Filters{
		Term:         e.cfg.SearchTerm,
		Categories:   cuisines,
		Price:        search.BuildPriceParam(budget),
		RadiusMeters: search.RadiusMeters(e.cfg.RadiusMiles),
		Limit:        e.cfg.ZoneLimit,
		SortBy:       e.cfg.SortBy,
		OpenNow:      e.cfg.OpenNow,
	}
}

// rank scores every candidate against the profile and orders them by
// distance window, then score, then exact distance, then ID. Candidates
// without coordinates are dropped so every distance is measured from the
// centroid.
func (e *Engine) rank(pool []models.Candidate, profile *models.ConsensusProfile, centroid models.Coordinate) []models.Candidate {
	ranked := make([]models.Candidate, 0, len(pool))
	for i := range pool {
		if !pool[i].Coordinates.IsZero() {
			ranked = append(ranked, pool[i])
		}
	}
	if len(ranked) == 0 {
		return nil
	}
	windows := make(map[string]float64, len(ranked))
	for i := range ranked {
		c := &ranked[i]
		c.DistanceMiles = geo.HaversineMiles(centroid, c.Coordinates)
		c.MatchScore = scoring.Score(c, profile, c.DistanceMiles)
		windows[c.ID] = math.Floor(c.DistanceMiles / e.cfg.DistanceWindowMiles)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if wa, wb := windows[a.ID], windows[b.ID]; wa != wb {
			return wa < wb
		}
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.DistanceMiles != b.DistanceMiles {
			return a.DistanceMiles < b.DistanceMiles
		}
		return a.ID < b.ID
	})

	if len(ranked) > e.cfg.MaxResults {
		ranked = ranked[:e.cfg.MaxResults]
	}
	return ranked
}

// deliver hands the result to every sink. Failures are logged only.
func (e *Engine) deliver(ctx context.Context, result *models.RecommendationResult, logger *zerolog.Logger) {
	for _, sink := range e.sinks {
		if err := sink.Store(ctx, result); err != nil {
			logger.Warn().Err(err).Str("sink", sink.Name()).Msg("Result sink failed")
		}
	}
}
