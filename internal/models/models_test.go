// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestBudgetTier_Level(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier BudgetTier
		want int
	}{
		{BudgetLow, 1},
		{BudgetModerate, 2},
		{BudgetHigh, 3},
		{BudgetLuxury, 4},
		{"", 0},
		{"$$$$$", 0},
		{"cheap", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			t.Parallel()
			if got := tt.tier.Level(); got != tt.want {
				t.Errorf("Level() = %d, want %d", got, tt.want)
			}
			if got := tt.tier.Valid(); got != (tt.want > 0) {
				t.Errorf("Valid() = %v, want %v", got, tt.want > 0)
			}
		})
	}
}

func TestBudgetTier_Distance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b BudgetTier
		want int
	}{
		{BudgetModerate, BudgetModerate, 0},
		{BudgetLow, BudgetModerate, 1},
		{BudgetLuxury, BudgetHigh, 1},
		{BudgetLow, BudgetLuxury, 3},
		{"", BudgetLow, -1},
		{BudgetLow, "?", -1},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%q-%q", tt.a, tt.b)
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := tt.a.Distance(tt.b); got != tt.want {
				t.Errorf("Distance() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseBudgetTier(t *testing.T) {
	t.Parallel()

	if tier, err := ParseBudgetTier(" $$ "); err != nil || tier != BudgetModerate {
		t.Errorf("ParseBudgetTier(\" $$ \") = %q, %v", tier, err)
	}
	if _, err := ParseBudgetTier("$$$$$"); err == nil {
		t.Error("expected error for five dollar signs")
	}
}

func TestGroup_HasMember(t *testing.T) {
	t.Parallel()

	g := &Group{ID: "g1", OwnerID: "alice", Members: []string{"alice", "bob"}}
	if !g.HasMember("bob") {
		t.Error("bob should be a member")
	}
	if g.HasMember("carol") {
		t.Error("carol should not be a member")
	}
}

func TestError_Is(t *testing.T) {
	t.Parallel()

	t.Run("matches sentinel by kind", func(t *testing.T) {
		t.Parallel()
		err := NewError(KindNoResults, "nothing within 12 miles")
		if !errors.Is(err, ErrNoResults) {
			t.Error("expected errors.Is to match ErrNoResults")
		}
		if errors.Is(err, ErrNotFound) {
			t.Error("did not expect match with ErrNotFound")
		}
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("centroid: %w", ErrNoValidLocations)
		if !errors.Is(err, ErrNoValidLocations) {
			t.Error("expected wrapped sentinel to match")
		}
		if KindOf(err) != KindNoValidLocations {
			t.Errorf("KindOf() = %q, want %q", KindOf(err), KindNoValidLocations)
		}
	})

	t.Run("unwraps cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("dial tcp: connection refused")
		err := WrapError(KindUpstreamUnavailable, "yelp search failed", cause)
		if !errors.Is(err, cause) {
			t.Error("expected cause to be reachable")
		}
		if err.Error() != "yelp search failed: dial tcp: connection refused" {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("foreign error has no kind", func(t *testing.T) {
		t.Parallel()
		if KindOf(errors.New("boom")) != "" {
			t.Error("expected empty kind")
		}
	})
}

func TestRecommendationResult_RestaurantIDs(t *testing.T) {
	t.Parallel()

	r := &RecommendationResult{Restaurants: []Candidate{{ID: "a"}, {ID: "b"}}}
	ids := r.RestaurantIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("RestaurantIDs() = %v", ids)
	}
}
