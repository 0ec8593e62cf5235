// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package models

import "time"

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsZero reports whether c is the zero value, which providers produce for a
// missing location.
func (c Coordinate) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

// Group is a dining group. Members holds user IDs in join order and always
// includes the owner.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// MemberPreference is one member's submission for one group. There is at
// most one per (UserID, GroupID); re-submission replaces the previous one.
type MemberPreference struct {
	UserID              string      `json:"user_id"`
	GroupID             string      `json:"group_id"`
	Cuisines            []string    `json:"cuisines"`
	DietaryRestrictions []string    `json:"dietary_restrictions"`
	SpiceLevel          int         `json:"spice_level"`
	Budget              BudgetTier  `json:"budget"`
	Location            string      `json:"location"`
	Coordinates         *Coordinate `json:"coordinates,omitempty"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// Cuisines offered by the preference form.
var KnownCuisines = []string{
	"American", "Italian", "Mexican", "Chinese", "Japanese", "Thai", "Indian",
	"Mediterranean", "French", "Korean", "Vietnamese", "Greek", "BBQ", "Vegan", "Seafood",
}

// Dietary restrictions offered by the preference form.
var KnownDietaryRestrictions = []string{
	"Vegetarian", "Vegan", "Gluten Free", "Dairy Free", "Nut Free", "Halal", "Kosher", "Paleo",
}
