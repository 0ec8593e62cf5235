// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package api

import (
	"net/http"

	"github.com/tomtom215/grubsync/internal/auth"
	"github.com/tomtom215/grubsync/internal/logging"
)

// UpsertPreference stores the caller's preferences for a group, replacing
// any earlier submission. The location must geocode; the resolved
// coordinates are stored with it.
func (h *Handler) UpsertPreference(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	g := h.memberGroup(rw, r)
	if g == nil {
		return
	}

	var req PreferenceRequest
	if !decodeJSON(rw, r, &req) {
		return
	}

	pref := req.toPreference(g.ID, auth.UserID(r.Context()))

	coord, ok := h.resolver.Resolve(r.Context(), pref.Location)
	if !ok {
		rw.Error(http.StatusBadRequest, ErrCodeInvalidAddress, "Invalid address")
		return
	}
	pref.Coordinates = &coord
	pref.UpdatedAt = h.now().UTC()

	if err := h.store.UpsertPreference(r.Context(), pref); err != nil {
		rw.DomainError(err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("group_id", g.ID).
		Int("cuisines", len(pref.Cuisines)).
		Str("budget", pref.Budget.String()).
		Msg("Preferences saved")
	rw.Success(pref)
}

// ListPreferences returns every member's submission in join order.
func (h *Handler) ListPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	g := h.memberGroup(rw, r)
	if g == nil {
		return
	}

	prefs, err := h.store.ListPreferences(r.Context(), g.ID)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(prefs)
}
