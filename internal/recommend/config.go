// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package recommend

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/grubsync/internal/config"
)

// Config holds the tuning knobs of the ranking pipeline.
type Config struct {
	RadiusMiles         float64       `json:"radius_miles"`
	RingPoints          int           `json:"ring_points"`
	TopCuisines         int           `json:"top_cuisines"`
	ZoneLimit           int           `json:"zone_limit"`
	FallbackLimit       int           `json:"fallback_limit"`
	MinResults          int           `json:"min_results"`
	FallbackZones       int           `json:"fallback_zones"`
	MaxResults          int           `json:"max_results"`
	DistanceWindowMiles float64       `json:"distance_window_miles"`
	CallTimeout         time.Duration `json:"call_timeout"`
	GeocodeConcurrency  int           `json:"geocode_concurrency"`
	SearchConcurrency   int           `json:"search_concurrency"`
	SortBy              string        `json:"sort_by"`
	OpenNow             bool          `json:"open_now"`
	SearchTerm          string        `json:"search_term"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		RadiusMiles:         8,
		RingPoints:          6,
		TopCuisines:         3,
		ZoneLimit:           20,
		FallbackLimit:       50,
		MinResults:          5,
		FallbackZones:       3,
		MaxResults:          10,
		DistanceWindowMiles: 3,
		CallTimeout:         10 * time.Second,
		GeocodeConcurrency:  8,
		SearchConcurrency:   8,
		SortBy:              "rating",
		OpenNow:             true,
		SearchTerm:          "restaurants",
	}
}

// FromConfig converts the loaded application configuration.
func FromConfig(rc config.RecommendConfig) Config {
	return Config{
		RadiusMiles:         rc.RadiusMiles,
		RingPoints:          rc.RingPoints,
		TopCuisines:         rc.TopCuisines,
		ZoneLimit:           rc.ZoneLimit,
		FallbackLimit:       rc.FallbackLimit,
		MinResults:          rc.MinResults,
		FallbackZones:       rc.FallbackZones,
		MaxResults:          rc.MaxResults,
		DistanceWindowMiles: rc.DistanceWindowMiles,
		CallTimeout:         rc.CallTimeout,
		GeocodeConcurrency:  rc.GeocodeConcurrency,
		SearchConcurrency:   rc.SearchConcurrency,
		SortBy:              rc.SortBy,
		OpenNow:             rc.OpenNow,
		SearchTerm:          rc.SearchTerm,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}

	if c.RadiusMiles <= 0 {
		errs = append(errs, fmt.Errorf("radius_miles must be positive, got %v", c.RadiusMiles))
	}
	if c.DistanceWindowMiles <= 0 {
		errs = append(errs, fmt.Errorf("distance_window_miles must be positive, got %v", c.DistanceWindowMiles))
	}
	if c.CallTimeout <= 0 {
		errs = append(errs, fmt.Errorf("call_timeout must be positive, got %v", c.CallTimeout))
	}
	if c.RingPoints < 0 {
		errs = append(errs, fmt.Errorf("ring_points must not be negative, got %d", c.RingPoints))
	}
	positive("top_cuisines", c.TopCuisines)
	positive("zone_limit", c.ZoneLimit)
	positive("fallback_limit", c.FallbackLimit)
	positive("min_results", c.MinResults)
	positive("fallback_zones", c.FallbackZones)
	positive("max_results", c.MaxResults)
	positive("geocode_concurrency", c.GeocodeConcurrency)
	positive("search_concurrency", c.SearchConcurrency)

	switch c.SortBy {
	case "best_match", "rating", "review_count", "distance":
	default:
		errs = append(errs, fmt.Errorf("sort_by %q is not one of best_match, rating, review_count, distance", c.SortBy))
	}

	return errors.Join(errs...)
}
