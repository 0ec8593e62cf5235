// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package scoring computes the bounded 0-100 match score of a candidate
// restaurant against a group's consensus profile.
//
// The score is the sum of five components:
//
//	distance  ≤2 mi: 60, ≤5 mi: 45, ≤8 mi: 25, ≤12 mi: 10, else -10
//	cuisine   25 × weight for each consensus cuisine found in a category, capped at 25
//	rating    rating / 5 × 10
//	reviews   review_count / 200 × 5, capped at 5
//	budget    exact tier: 8, adjacent tier: 4
//
// The sum is rounded half up and clamped to [0, 100]. Dietary restrictions
// are not scored.
package scoring

import (
	"math"
	"strings"

	"github.com/tomtom215/grubsync/internal/models"
)

const (
	MaxScore = 100
	MinScore = 0

	CuisineCap      = 25.0
	RatingMax       = 10.0
	ReviewsMax      = 5.0
	ReviewsSaturate = 200.0
	BudgetExact     = 8.0
	BudgetAdjacent  = 4.0
)

// distanceBands are checked in order; the first band whose limit is not
// exceeded wins.
var distanceBands = []struct {
	maxMiles float64
	points   float64
}{
	{2, 60},
	{5, 45},
	{8, 25},
	{12, 10},
}

const beyondBandsPenalty = -10.0

// Breakdown is the per-component contribution to a score.
type Breakdown struct {
	Distance float64 `json:"distance"`
	Cuisine  float64 `json:"cuisine"`
	Rating   float64 `json:"rating"`
	Reviews  float64 `json:"reviews"`
	Budget   float64 `json:"budget"`
}

// Total returns the unrounded, unclamped sum.
func (b Breakdown) Total() float64 {
	return b.Distance + b.Cuisine + b.Rating + b.Reviews + b.Budget
}

// Score returns the clamped integer match score.
func Score(c *models.Candidate, profile *models.ConsensusProfile, distanceMiles float64) int {
	return Clamp(Explain(c, profile, distanceMiles).Total())
}

// Explain returns the component breakdown behind Score.
func Explain(c *models.Candidate, profile *models.ConsensusProfile, distanceMiles float64) Breakdown {
	return Breakdown{
		Distance: DistanceScore(distanceMiles),
		Cuisine:  CuisineScore(c.Categories, profile.Cuisines),
		Rating:   RatingScore(c.Rating),
		Reviews:  ReviewScore(c.ReviewCount),
		Budget:   BudgetScore(c.Price, profile.Budget),
	}
}

// Clamp rounds half up and bounds the result to [MinScore, MaxScore].
func Clamp(total float64) int {
	rounded := int(math.Floor(total + 0.5))
	if rounded < MinScore {
		return MinScore
	}
	if rounded > MaxScore {
		return MaxScore
	}
	return rounded
}

// DistanceScore returns the band score for a distance in miles.
func DistanceScore(miles float64) float64 {
	for _, band := range distanceBands {
		if miles <= band.maxMiles {
			return band.points
		}
	}
	return beyondBandsPenalty
}

// CuisineScore adds 25×weight for every consensus cuisine that appears as a
// case-insensitive substring of any category alias or title.
func CuisineScore(categories []models.Category, cuisines []models.CuisineWeight) float64 {
	if len(categories) == 0 || len(cuisines) == 0 {
		return 0
	}

	tags := make([]string, 0, 2*len(categories))
	for _, cat := range categories {
		if cat.Alias != "" {
			tags = append(tags, strings.ToLower(cat.Alias))
		}
		if cat.Title != "" {
			tags = append(tags, strings.ToLower(cat.Title))
		}
	}

	score := 0.0
	for _, cw := range cuisines {
		name := strings.ToLower(strings.TrimSpace(cw.Cuisine))
		if name == "" {
			continue
		}
		for _, tag := range tags {
			if strings.Contains(tag, name) {
				score += CuisineCap * cw.Weight
				break
			}
		}
	}

	return math.Min(score, CuisineCap)
}

// RatingScore scales a 0-5 rating to 0-10.
func RatingScore(rating float64) float64 {
	return rating / 5 * RatingMax
}

// ReviewScore rewards review volume, saturating at 200 reviews.
func ReviewScore(reviewCount int) float64 {
	return math.Min(float64(reviewCount)/ReviewsSaturate*ReviewsMax, ReviewsMax)
}

// BudgetScore rewards an exact or adjacent price tier.
func BudgetScore(price, consensus models.BudgetTier) float64 {
	switch price.Distance(consensus) {
	case 0:
		return BudgetExact
	case 1:
		return BudgetAdjacent
	default:
		return 0
	}
}
