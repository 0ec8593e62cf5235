// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package geocode

import (
	"context"
	"errors"

	"github.com/tomtom215/grubsync/internal/breaker"
	"github.com/tomtom215/grubsync/internal/models"
)

var _ Geocoder = (*BreakerGeocoder)(nil)

// BreakerGeocoder protects a Geocoder with a circuit breaker. ErrNoMatch
// and caller cancellation are not counted as provider failures.
type BreakerGeocoder struct {
	next Geocoder
	cb   *breaker.Breaker[models.Coordinate]
}

func NewBreakerGeocoder(next Geocoder, cfg breaker.Config) *BreakerGeocoder {
	return &BreakerGeocoder{
		next: next,
		cb:   breaker.New[models.Coordinate](next.Name()+"-geocoding", cfg, countsAsSuccess),
	}
}

func countsAsSuccess(err error) bool {
	return err == nil || errors.Is(err, ErrNoMatch) || errors.Is(err, context.Canceled)
}

func (b *BreakerGeocoder) Name() string { return b.next.Name() }

func (b *BreakerGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	coord, err := b.cb.Execute(func() (models.Coordinate, error) {
		return b.next.Geocode(ctx, address)
	})
	if err != nil && breaker.IsOpen(err) {
		return models.Coordinate{}, upstreamError(b.Name(), err)
	}
	return coord, err
}
