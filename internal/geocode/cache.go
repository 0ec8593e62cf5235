// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package geocode

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/grubsync/internal/cache"
	"github.com/tomtom215/grubsync/internal/metrics"
	"github.com/tomtom215/grubsync/internal/models"
)

var _ Geocoder = (*CachingGeocoder)(nil)

// CachingGeocoder remembers successful lookups. Misses and errors are not
// cached, so a provider outage never pins an address as unresolvable.
type CachingGeocoder struct {
	next  Geocoder
	cache *cache.LRU[models.Coordinate]
}

func NewCachingGeocoder(next Geocoder, size int, ttl time.Duration) *CachingGeocoder {
	return &CachingGeocoder{
		next:  next,
		cache: cache.New[models.Coordinate](size, ttl),
	}
}

func (c *CachingGeocoder) Name() string { return c.next.Name() }

func (c *CachingGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	key := cacheKey(address)
	if coord, ok := c.cache.Get(key); ok {
		metrics.RecordGeocodeCache(true)
		return coord, nil
	}
	metrics.RecordGeocodeCache(false)

	coord, err := c.next.Geocode(ctx, address)
	if err != nil {
		return models.Coordinate{}, err
	}
	c.cache.Add(key, coord)
	return coord, nil
}

// cacheKey folds case and whitespace so trivially different spellings of
// one address share an entry.
func cacheKey(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
