// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package events publishes a recommendation.generated event to Kafka for
// every successful recommendation run.
//
// The Publisher is both a result sink and a suture service: Store enqueues
// without blocking the request, and Serve drains the queue into a
// segmentio/kafka-go Writer keyed by group ID so that events of one group
// stay ordered within a partition.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/grubsync/internal/models"
)

// TypeRecommendationGenerated is the event type of every published event.
const TypeRecommendationGenerated = "recommendation.generated"

// RecommendationGenerated is the JSON payload written to Kafka.
type RecommendationGenerated struct {
	EventID         string            `json:"event_id"`
	Type            string            `json:"type"`
	GroupID         string            `json:"group_id"`
	RequesterID     string            `json:"requester_id"`
	RestaurantIDs   []string          `json:"restaurant_ids"`
	TopCuisines     []string          `json:"top_cuisines"`
	TopBudget       models.BudgetTier `json:"top_budget,omitempty"`
	Centroid        [2]float64        `json:"centroid"`
	Members         int               `json:"members"`
	CandidatesFound int               `json:"candidates_found"`
	FallbackUsed    bool              `json:"fallback_used"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// NewRecommendationGenerated builds the event for r.
func NewRecommendationGenerated(r *models.RecommendationResult) RecommendationGenerated {
	return RecommendationGenerated{
		EventID:         uuid.NewString(),
		Type:            TypeRecommendationGenerated,
		GroupID:         r.GroupID,
		RequesterID:     r.RequesterID,
		RestaurantIDs:   r.RestaurantIDs(),
		TopCuisines:     r.Stats.TopCuisines,
		TopBudget:       r.Stats.TopBudget,
		Centroid:        r.Stats.Centroid,
		Members:         r.Stats.Members,
		CandidatesFound: r.Stats.CandidatesFound,
		FallbackUsed:    r.Stats.FallbackUsed,
		GeneratedAt:     r.GeneratedAt,
	}
}
