// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package geocode turns free-form member addresses into coordinates.
//
// Two providers are supported, Google Geocoding and OpenStreetMap
// Nominatim. Either is wrapped in a circuit breaker (BreakerGeocoder) and
// driven by an Adapter, which never fails: an address that cannot be
// resolved for any reason simply yields no coordinate.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/grubsync/internal/breaker"
	"github.com/tomtom215/grubsync/internal/config"
	"github.com/tomtom215/grubsync/internal/models"
)

// ErrNoMatch is returned when the provider answered but found nothing.
var ErrNoMatch = errors.New("geocode: no match")

// Geocoder resolves a single address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
	Name() string
}

// upstreamError marks provider failures as upstream_unavailable.
func upstreamError(provider string, err error) error {
	return models.WrapError(models.KindUpstreamUnavailable, provider+" geocoding unavailable", err)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// NewFromConfig builds the configured provider wrapped in a circuit breaker
// and, when cfg.CacheSize is positive, a result cache in front of that.
func NewFromConfig(cfg config.GeocodingConfig, bcfg breaker.Config) (Geocoder, error) {
	var g Geocoder
	switch cfg.Provider {
	case "google":
		g = NewGoogleClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout)
	case "nominatim":
		g = NewNominatimClient(cfg.BaseURL, cfg.UserAgent, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q", cfg.Provider)
	}
	g = NewBreakerGeocoder(g, bcfg)
	if cfg.CacheSize > 0 {
		g = NewCachingGeocoder(g, cfg.CacheSize, cfg.CacheTTL)
	}
	return g, nil
}
