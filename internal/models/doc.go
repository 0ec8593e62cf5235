// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

/*
Package models defines the data structures shared across GrubSync.

Key Components:

  - Group: a dining group and its member list
  - MemberPreference: one member's cuisine, dietary, spice, budget and location choices
  - ConsensusProfile: the group-level aggregate derived from all preferences
  - Candidate: a restaurant returned by the search provider, normalized
  - RecommendationResult: the ranked shortlist produced per request
  - Error: the typed error taxonomy returned by the recommendation pipeline

Model Categories:

1. Stored Models:
  - Group, MemberPreference, StoredRecommendation

2. Derived Models (built fresh for every request):
  - Coordinate, ConsensusProfile, Candidate, RecommendationResult

3. Budget Tiers:
  - BudgetTier is one of $, $$, $$$, $$$$ and is ordered by Level.

This package has no dependencies on other internal packages.
*/
package models
