// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package search fans restaurant queries out over the planned search zones
// and merges the answers into a single de-duplicated candidate pool.
package search

import (
	"context"
	"errors"

	"github.com/tomtom215/grubsync/internal/breaker"
	"github.com/tomtom215/grubsync/internal/models"
)

// Searcher queries a restaurant provider around one point.
type Searcher interface {
	Search(ctx context.Context, center models.Coordinate, f Filters) ([]models.Candidate, error)
	Name() string
}

var _ Searcher = (*BreakerSearcher)(nil)

// BreakerSearcher protects a Searcher with a circuit breaker. Caller
// cancellation is not counted as a provider failure.
type BreakerSearcher struct {
	next Searcher
	cb   *breaker.Breaker[[]models.Candidate]
}

func NewBreakerSearcher(next Searcher, cfg breaker.Config) *BreakerSearcher {
	return &BreakerSearcher{
		next: next,
		cb: breaker.New[[]models.Candidate](next.Name()+"-search", cfg, func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		}),
	}
}

func (b *BreakerSearcher) Name() string { return b.next.Name() }

func (b *BreakerSearcher) Search(ctx context.Context, center models.Coordinate, f Filters) ([]models.Candidate, error) {
	candidates, err := b.cb.Execute(func() ([]models.Candidate, error) {
		return b.next.Search(ctx, center, f)
	})
	if err != nil && breaker.IsOpen(err) {
		return nil, models.WrapError(models.KindUpstreamUnavailable, b.Name()+" search unavailable", err)
	}
	return candidates, err
}
