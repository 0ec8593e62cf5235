// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package consensus reduces the preferences of every member of a group into
// a single ConsensusProfile: ranked cuisine weights, the union of dietary
// restrictions, the rounded mean spice level and the majority budget tier.
package consensus

import (
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/grubsync/internal/models"
)

// Aggregate builds the consensus profile for a non-empty set of preferences.
// It returns models.ErrEmptyInput when prefs is empty.
func Aggregate(prefs []models.MemberPreference) (models.ConsensusProfile, error) {
	if len(prefs) == 0 {
		return models.ConsensusProfile{}, models.ErrEmptyInput
	}

	budget, support := majorityBudget(prefs)

	return models.ConsensusProfile{
		Cuisines:            cuisineWeights(prefs),
		DietaryRestrictions: dietaryUnion(prefs),
		SpiceLevel:          averageSpice(prefs),
		Budget:              budget,
		BudgetSupport:       support,
		Members:             len(prefs),
	}, nil
}

// TopCuisines returns up to n cuisine names from the ranked profile.
func TopCuisines(profile models.ConsensusProfile, n int) []string {
	if n <= 0 || n > len(profile.Cuisines) {
		n = len(profile.Cuisines)
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = profile.Cuisines[i].Cuisine
	}
	return names
}

// normalizeTag folds a tag for comparison.
func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// cuisineWeights counts each distinct cuisine once per member. The first
// spelling seen is kept for display.
func cuisineWeights(prefs []models.MemberPreference) []models.CuisineWeight {
	index := make(map[string]int)
	var weights []models.CuisineWeight

	for i := range prefs {
		seen := make(map[string]bool, len(prefs[i].Cuisines))
		for _, c := range prefs[i].Cuisines {
			key := normalizeTag(c)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true

			if idx, ok := index[key]; ok {
				weights[idx].Count++
				continue
			}
			index[key] = len(weights)
			weights = append(weights, models.CuisineWeight{
				Cuisine: strings.TrimSpace(c),
				Count:   1,
			})
		}
	}

	members := float64(len(prefs))
	for i := range weights {
		weights[i].Weight = float64(weights[i].Count) / members
	}

	// Stable sort keeps first-seen order among equal counts.
	sort.SliceStable(weights, func(a, b int) bool {
		return weights[a].Count > weights[b].Count
	})

	return weights
}

func dietaryUnion(prefs []models.MemberPreference) []string {
	seen := make(map[string]bool)
	union := make([]string, 0)
	for i := range prefs {
		for _, d := range prefs[i].DietaryRestrictions {
			key := normalizeTag(d)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			union = append(union, key)
		}
	}
	return union
}

// averageSpice rounds the mean half up.
func averageSpice(prefs []models.MemberPreference) int {
	sum := 0
	for i := range prefs {
		sum += prefs[i].SpiceLevel
	}
	mean := float64(sum) / float64(len(prefs))
	return int(math.Floor(mean + 0.5))
}

// majorityBudget returns the most requested tier and its share of members.
// Ties resolve to the earliest tier in models.AllBudgetTiers.
func majorityBudget(prefs []models.MemberPreference) (models.BudgetTier, float64) {
	counts := make(map[models.BudgetTier]int, len(models.AllBudgetTiers))
	for i := range prefs {
		if prefs[i].Budget.Valid() {
			counts[prefs[i].Budget]++
		}
	}

	best := models.BudgetTier("")
	bestCount := 0
	for _, tier := range models.AllBudgetTiers {
		if counts[tier] > bestCount {
			best = tier
			bestCount = counts[tier]
		}
	}

	if bestCount == 0 {
		return "", 0
	}
	return best, float64(bestCount) / float64(len(prefs))
}
