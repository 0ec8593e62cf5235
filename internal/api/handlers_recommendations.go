// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/grubsync/internal/auth"
)

// GenerateRecommendations runs the pipeline for the group on behalf of the
// caller. Membership and preference checks happen inside the engine so the
// CLI and the API fail the same way.
func (h *Handler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), h.recommendTimeout)
	defer cancel()

	result, err := h.engine.GenerateRecommendations(ctx, chi.URLParam(r, "groupID"), auth.UserID(r.Context()))
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(result)
}

// LatestRecommendation returns the group's most recent stored result.
func (h *Handler) LatestRecommendation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	g := h.memberGroup(rw, r)
	if g == nil {
		return
	}

	stored, err := h.store.LatestRecommendation(r.Context(), g.ID)
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(stored)
}
