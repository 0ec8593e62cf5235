// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package geocode

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/metrics"
	"github.com/tomtom215/grubsync/internal/models"
)

// Resolution is the outcome of resolving one address.
type Resolution struct {
	Address    string
	Coordinate models.Coordinate
	OK         bool
}

// Adapter resolves addresses through a Geocoder without surfacing errors.
type Adapter struct {
	geocoder    Geocoder
	callTimeout time.Duration
	concurrency int
	logger      zerolog.Logger
}

// NewAdapter creates an Adapter. callTimeout bounds each lookup and
// concurrency bounds ResolveAll; non-positive values fall back to 10s and 8.
func NewAdapter(g Geocoder, callTimeout time.Duration, concurrency int) *Adapter {
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Adapter{
		geocoder:    g,
		callTimeout: callTimeout,
		concurrency: concurrency,
		logger:      logging.WithComponent("geocode").With().Str("provider", g.Name()).Logger(),
	}
}

// Resolve returns the coordinate for address and whether it was found.
// Blank addresses, no-match answers, transport errors, timeouts and open
// breakers all yield (zero, false).
func (a *Adapter) Resolve(ctx context.Context, address string) (models.Coordinate, bool) {
	provider := a.geocoder.Name()

	address = strings.TrimSpace(address)
	if address == "" {
		metrics.RecordGeocode(provider, "skipped")
		return models.Coordinate{}, false
	}

	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	coord, err := a.geocoder.Geocode(callCtx, address)
	switch {
	case err == nil:
		metrics.RecordGeocode(provider, "resolved")
		return coord, true
	case errors.Is(err, ErrNoMatch):
		metrics.RecordGeocode(provider, "no_match")
		a.logger.Debug().Msg("Address did not match any location")
	default:
		metrics.RecordGeocode(provider, "error")
		a.logger.Warn().Err(err).Msg("Geocoding failed")
	}
	return models.Coordinate{}, false
}

// ResolveAll resolves every address concurrently. The result has the same
// length and order as addresses.
func (a *Adapter) ResolveAll(ctx context.Context, addresses []string) []Resolution {
	results := make([]Resolution, len(addresses))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, address := range addresses {
		g.Go(func() error {
			coord, ok := a.Resolve(ctx, address)
			results[i] = Resolution{Address: address, Coordinate: coord, OK: ok}
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors

	return results
}
