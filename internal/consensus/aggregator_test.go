// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package consensus

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tomtom215/grubsync/internal/models"
)

func pref(cuisines []string, diet []string, spice int, budget models.BudgetTier) models.MemberPreference {
	return models.MemberPreference{
		Cuisines:            cuisines,
		DietaryRestrictions: diet,
		SpiceLevel:          spice,
		Budget:              budget,
	}
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	_, err := Aggregate(nil)
	if !errors.Is(err, models.ErrEmptyInput) {
		t.Errorf("Aggregate(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestAggregate_CuisineWeights(t *testing.T) {
	t.Parallel()

	prefs := []models.MemberPreference{
		pref([]string{"Italian", "Japanese"}, nil, 3, models.BudgetModerate),
		pref([]string{"Italian", "Mexican"}, nil, 3, models.BudgetModerate),
		pref([]string{"italian", "Indian", "Mexican"}, nil, 3, models.BudgetHigh),
	}

	profile, err := Aggregate(prefs)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	want := []models.CuisineWeight{
		{Cuisine: "Italian", Count: 3, Weight: 1},
		{Cuisine: "Mexican", Count: 2, Weight: 2.0 / 3},
		{Cuisine: "Japanese", Count: 1, Weight: 1.0 / 3},
		{Cuisine: "Indian", Count: 1, Weight: 1.0 / 3},
	}
	if !reflect.DeepEqual(profile.Cuisines, want) {
		t.Errorf("Cuisines = %+v\nwant %+v", profile.Cuisines, want)
	}

	totalCount := 0
	for _, w := range profile.Cuisines {
		if w.Weight <= 0 || w.Weight > 1 {
			t.Errorf("weight %f for %s outside (0,1]", w.Weight, w.Cuisine)
		}
		totalCount += w.Count
	}
	if totalCount != 7 {
		t.Errorf("sum of counts = %d, want 7 submissions", totalCount)
	}
}

func TestAggregate_CuisineTiesKeepFirstSeenOrder(t *testing.T) {
	t.Parallel()

	prefs := []models.MemberPreference{
		pref([]string{"Thai", "Greek"}, nil, 1, models.BudgetLow),
		pref([]string{"Korean", "Greek", "Thai"}, nil, 1, models.BudgetLow),
		pref([]string{"Korean"}, nil, 1, models.BudgetLow),
	}

	profile, err := Aggregate(prefs)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	got := TopCuisines(profile, 0)
	want := []string{"Thai", "Greek", "Korean"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAggregate_DuplicateTagCountsOncePerMember(t *testing.T) {
	t.Parallel()

	profile, err := Aggregate([]models.MemberPreference{
		pref([]string{"BBQ", "bbq", " BBQ "}, nil, 2, models.BudgetLow),
		pref([]string{"Seafood"}, nil, 2, models.BudgetLow),
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if profile.Cuisines[0].Cuisine != "BBQ" || profile.Cuisines[0].Count != 1 || profile.Cuisines[0].Weight != 0.5 {
		t.Errorf("Cuisines[0] = %+v, want BBQ count 1 weight 0.5", profile.Cuisines[0])
	}
}

func TestAggregate_DietaryUnion(t *testing.T) {
	t.Parallel()

	profile, err := Aggregate([]models.MemberPreference{
		pref(nil, []string{"Vegan", "Gluten Free"}, 1, models.BudgetLow),
		pref(nil, []string{"vegan", "Halal"}, 1, models.BudgetLow),
		pref(nil, nil, 1, models.BudgetLow),
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	want := []string{"vegan", "gluten free", "halal"}
	if !reflect.DeepEqual(profile.DietaryRestrictions, want) {
		t.Errorf("DietaryRestrictions = %v, want %v", profile.DietaryRestrictions, want)
	}
}

func TestAggregate_SpiceRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		levels []int
		want   int
	}{
		{"mean exactly three", []int{1, 2, 4, 5}, 3},
		{"mean 1.667 rounds up", []int{1, 2, 2}, 2},
		{"half rounds up", []int{1, 2}, 2},
		{"mean 2.25 rounds down", []int{1, 2, 3, 3}, 2},
		{"single member", []int{5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			prefs := make([]models.MemberPreference, len(tt.levels))
			for i, l := range tt.levels {
				prefs[i] = pref(nil, nil, l, models.BudgetLow)
			}
			profile, err := Aggregate(prefs)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if profile.SpiceLevel != tt.want {
				t.Errorf("SpiceLevel = %d, want %d", profile.SpiceLevel, tt.want)
			}
		})
	}
}

func TestAggregate_Budget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		budgets     []models.BudgetTier
		want        models.BudgetTier
		wantSupport float64
	}{
		{
			name:        "two-two tie resolves to earlier tier",
			budgets:     []models.BudgetTier{"$$", "$$$", "$$", "$$$"},
			want:        models.BudgetModerate,
			wantSupport: 0.5,
		},
		{
			name:        "tie order independent of input order",
			budgets:     []models.BudgetTier{"$$$$", "$", "$$$$", "$"},
			want:        models.BudgetLow,
			wantSupport: 0.5,
		},
		{
			name:        "clear majority",
			budgets:     []models.BudgetTier{"$$$", "$$$", "$"},
			want:        models.BudgetHigh,
			wantSupport: 2.0 / 3,
		},
		{
			name:        "invalid tiers count only in the denominator",
			budgets:     []models.BudgetTier{"$$", "free", "", "$$"},
			want:        models.BudgetModerate,
			wantSupport: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			prefs := make([]models.MemberPreference, len(tt.budgets))
			for i, b := range tt.budgets {
				prefs[i] = pref(nil, nil, 1, b)
			}
			profile, err := Aggregate(prefs)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if profile.Budget != tt.want {
				t.Errorf("Budget = %q, want %q", profile.Budget, tt.want)
			}
			if math.Abs(profile.BudgetSupport-tt.wantSupport) > 1e-9 {
				t.Errorf("BudgetSupport = %f, want %f", profile.BudgetSupport, tt.wantSupport)
			}
		})
	}
}

func TestTopCuisines(t *testing.T) {
	t.Parallel()

	profile := models.ConsensusProfile{Cuisines: []models.CuisineWeight{
		{Cuisine: "Italian"}, {Cuisine: "Thai"}, {Cuisine: "Greek"}, {Cuisine: "French"},
	}}

	if got := TopCuisines(profile, 3); !reflect.DeepEqual(got, []string{"Italian", "Thai", "Greek"}) {
		t.Errorf("TopCuisines(3) = %v", got)
	}
	if got := TopCuisines(profile, 10); len(got) != 4 {
		t.Errorf("TopCuisines(10) len = %d, want 4", len(got))
	}
	if got := TopCuisines(models.ConsensusProfile{}, 3); len(got) != 0 {
		t.Errorf("TopCuisines on empty profile = %v", got)
	}
}
