// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package api

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/grubsync/internal/models"
)

// CreateGroupRequest is the body of POST /groups. Members are optional
// additional user IDs; the caller is always added as owner.
type CreateGroupRequest struct {
	Name    string   `json:"name" validate:"required,notblank,max=100"`
	Members []string `json:"members" validate:"omitempty,max=50,dive,notblank,max=128"`
}

// PreferenceRequest is the body of PUT /groups/{groupID}/preferences.
type PreferenceRequest struct {
	Cuisines            []string `json:"cuisines" validate:"max=20,dive,notblank,max=50"`
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"max=20,dive,notblank,max=50"`
	SpiceLevel          int      `json:"spice_level" validate:"min=1,max=5"`
	Budget              string   `json:"budget" validate:"required,budget"`
	Location            string   `json:"location" validate:"required,notblank,max=500"`
}

// toPreference builds the stored record for userID in groupID.
func (p *PreferenceRequest) toPreference(groupID, userID string) *models.MemberPreference {
	return &models.MemberPreference{
		UserID:              userID,
		GroupID:             groupID,
		Cuisines:            trimAll(p.Cuisines),
		DietaryRestrictions: trimAll(p.DietaryRestrictions),
		SpiceLevel:          p.SpiceLevel,
		Budget:              models.BudgetTier(p.Budget),
		Location:            strings.TrimSpace(p.Location),
	}
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func newGroupID() string {
	return uuid.NewString()
}
