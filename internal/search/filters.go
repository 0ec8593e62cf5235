// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package search

import (
	"strings"

	"github.com/tomtom215/grubsync/internal/geo"
	"github.com/tomtom215/grubsync/internal/models"
)

// MaxRadiusMeters is the largest radius the search provider accepts.
const MaxRadiusMeters = 40000

// Filters are the provider-independent search parameters for one query.
type Filters struct {
	Term         string
	Categories   []string
	Price        string
	RadiusMeters int
	Limit        int
	SortBy       string
	OpenNow      bool
}

// CategoryParam joins the categories as the provider expects them:
// lower-cased and comma separated.
func (f Filters) CategoryParam() string {
	parts := make([]string, 0, len(f.Categories))
	for _, c := range f.Categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, ",")
}

// BuildPriceParam widens a budget tier to itself and its neighbour so that
// near-budget places are still found. Unknown tiers search every price.
func BuildPriceParam(tier models.BudgetTier) string {
	switch tier {
	case models.BudgetLow:
		return "1"
	case models.BudgetModerate:
		return "1,2"
	case models.BudgetHigh:
		return "2,3"
	case models.BudgetLuxury:
		return "3,4"
	default:
		return "1,2,3,4"
	}
}

// RadiusMeters converts miles to whole meters, capped at MaxRadiusMeters.
func RadiusMeters(miles float64) int {
	m := geo.MilesToMeters(miles)
	if m > MaxRadiusMeters {
		return MaxRadiusMeters
	}
	if m < 0 {
		return 0
	}
	return m
}

// Broaden relaxes f for the fallback pass: categories and price are
// dropped, the radius doubles up to the provider maximum and the limit is
// raised to limit.
func Broaden(f Filters, limit int) Filters {
	broad := f
	broad.Categories = nil
	broad.Price = ""
	broad.RadiusMeters = min(f.RadiusMeters*2, MaxRadiusMeters)
	if limit > broad.Limit {
		broad.Limit = limit
	}
	return broad
}
