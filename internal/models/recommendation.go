// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package models

import "time"

// CuisineWeight is the fraction of members that asked for a cuisine.
type CuisineWeight struct {
	Cuisine string  `json:"cuisine"`
	Weight  float64 `json:"weight"`
	Count   int     `json:"count"`
}

// ConsensusProfile is the group-level aggregate of all member preferences.
type ConsensusProfile struct {
	// Cuisines is ranked by weight descending; ties keep first-seen order.
	Cuisines []CuisineWeight `json:"cuisines"`

	// DietaryRestrictions is the lower-cased union across members.
	DietaryRestrictions []string `json:"dietary_restrictions"`

	SpiceLevel    int        `json:"spice_level"`
	Budget        BudgetTier `json:"budget"`
	BudgetSupport float64    `json:"budget_support"`
	Members       int        `json:"members"`
}

// Category is a provider category tag.
type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// Candidate is a normalized restaurant record from the search provider.
type Candidate struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ImageURL    string     `json:"image_url,omitempty"`
	URL         string     `json:"url,omitempty"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	Price       BudgetTier `json:"price,omitempty"`
	Address     string     `json:"address,omitempty"`
	Categories  []Category `json:"categories"`
	Phone       string     `json:"phone,omitempty"`
	Coordinates Coordinate `json:"coordinates"`

	// ProviderDistanceMeters is the distance the provider reported from the
	// zone the candidate was found in, not from the group centroid.
	ProviderDistanceMeters float64 `json:"provider_distance_meters,omitempty"`

	DistanceMiles float64 `json:"distance_miles"`
	MatchScore    int     `json:"match_score"`
}

// CategoryTitles returns the display titles of the candidate's categories.
func (c *Candidate) CategoryTitles() []string {
	titles := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		titles = append(titles, cat.Title)
	}
	return titles
}

// RecommendationStats summarizes how a result was produced.
type RecommendationStats struct {
	Members           int        `json:"members"`
	LocationsResolved int        `json:"locations_resolved"`
	Zones             int        `json:"zones"`
	ZonesFailed       int        `json:"zones_failed"`
	CandidatesFound   int        `json:"candidates_found"`
	FallbackUsed      bool       `json:"fallback_used"`
	TopCuisines       []string   `json:"top_cuisines"`
	TopBudget         BudgetTier `json:"top_budget"`
	Centroid          [2]float64 `json:"centroid"`
	DurationMs        int64      `json:"duration_ms"`
}

// RecommendationResult is the ranked shortlist for one request.
type RecommendationResult struct {
	GroupID     string              `json:"group_id"`
	RequesterID string              `json:"requester_id"`
	Profile     ConsensusProfile    `json:"profile"`
	Centroid    Coordinate          `json:"centroid"`
	Restaurants []Candidate         `json:"restaurants"`
	Stats       RecommendationStats `json:"stats"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// RestaurantIDs returns the IDs of the ranked restaurants in order.
func (r *RecommendationResult) RestaurantIDs() []string {
	ids := make([]string, len(r.Restaurants))
	for i := range r.Restaurants {
		ids[i] = r.Restaurants[i].ID
	}
	return ids
}

// StoredRecommendation is the latest persisted result for a group.
type StoredRecommendation struct {
	GroupID     string                `json:"group_id"`
	Result      *RecommendationResult `json:"result"`
	LastUpdated time.Time             `json:"last_updated"`
}
