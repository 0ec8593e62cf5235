// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/grubsync/internal/auth"
	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/models"
)

// CreateGroup creates a group owned by the caller.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CreateGroupRequest
	if !decodeJSON(rw, r, &req) {
		return
	}

	owner := auth.UserID(r.Context())
	g := &models.Group{
		ID:        h.newID(),
		Name:      strings.TrimSpace(req.Name),
		OwnerID:   owner,
		Members:   append([]string{owner}, trimAll(req.Members)...),
		CreatedAt: h.now().UTC(),
	}

	if err := h.store.CreateGroup(r.Context(), g); err != nil {
		rw.DomainError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("group_id", g.ID).
		Int("members", len(g.Members)).
		Msg("Group created")
	rw.Created(g)
}

// GetGroup returns a group to its members.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if g := h.memberGroup(rw, r); g != nil {
		rw.Success(g)
	}
}

// JoinGroup adds the caller to a group. Joining twice is not an error.
func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	g, err := h.store.AddMember(r.Context(), chi.URLParam(r, "groupID"), auth.UserID(r.Context()))
	if err != nil {
		rw.DomainError(err)
		return
	}
	rw.Success(g)
}
