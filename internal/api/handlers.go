// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/grubsync/internal/auth"
	"github.com/tomtom215/grubsync/internal/models"
	"github.com/tomtom215/grubsync/internal/validation"
)

// DefaultRecommendTimeout bounds one recommendation request end to end.
const DefaultRecommendTimeout = 30 * time.Second

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// GroupStore is the subset of database.Store the handlers use.
type GroupStore interface {
	CreateGroup(ctx context.Context, g *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	AddMember(ctx context.Context, groupID, userID string) (*models.Group, error)
	UpsertPreference(ctx context.Context, p *models.MemberPreference) error
	ListPreferences(ctx context.Context, groupID string) ([]models.MemberPreference, error)
	LatestRecommendation(ctx context.Context, groupID string) (*models.StoredRecommendation, error)
	Ping(ctx context.Context) error
}

// Recommender runs the recommendation pipeline for a group.
type Recommender interface {
	GenerateRecommendations(ctx context.Context, groupID, requesterID string) (*models.RecommendationResult, error)
}

// AddressResolver geocodes a free-form address.
type AddressResolver interface {
	Resolve(ctx context.Context, address string) (models.Coordinate, bool)
}

// HandlerOptions tunes a Handler. Zero values select defaults.
type HandlerOptions struct {
	Version          string
	RecommendTimeout time.Duration
	IDGenerator      func() string
	Now              func() time.Time
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_groups.go: group creation, lookup and membership
//   - handlers_preferences.go: preference submission and listing
//   - handlers_recommendations.go: pipeline runs and stored results
//   - handlers_health.go: health check
type Handler struct {
	store            GroupStore
	engine           Recommender
	resolver         AddressResolver
	version          string
	recommendTimeout time.Duration
	newID            func() string
	now              func() time.Time
	startTime        time.Time
}

// NewHandler creates the API handler.
func NewHandler(store GroupStore, engine Recommender, resolver AddressResolver, opts HandlerOptions) *Handler {
	h := &Handler{
		store:            store,
		engine:           engine,
		resolver:         resolver,
		version:          opts.Version,
		recommendTimeout: opts.RecommendTimeout,
		newID:            opts.IDGenerator,
		now:              opts.Now,
	}
	if h.version == "" {
		h.version = "dev"
	}
	if h.recommendTimeout <= 0 {
		h.recommendTimeout = DefaultRecommendTimeout
	}
	if h.newID == nil {
		h.newID = newGroupID
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.startTime = h.now()
	return h
}

// decodeJSON reads a size-limited JSON body into dst and validates it.
// It writes the error response and returns false on failure.
func decodeJSON(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(rw.w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "Request body too large")
			return false
		}
		rw.BadRequest("Invalid JSON body: " + sanitizeLogValue(err.Error()))
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// memberGroup loads the group named in the URL and checks the caller
// belongs to it. It writes the error response and returns nil on failure.
func (h *Handler) memberGroup(rw *ResponseWriter, r *http.Request) *models.Group {
	groupID := chi.URLParam(r, "groupID")
	g, err := h.store.GetGroup(r.Context(), groupID)
	if err != nil {
		rw.DomainError(err)
		return nil
	}
	if !g.HasMember(auth.UserID(r.Context())) {
		rw.DomainError(models.ErrForbidden)
		return nil
	}
	return g
}

// sanitizeLogValue replaces control characters so user input cannot forge
// log lines or response text.
func sanitizeLogValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return ' '
		}
		return r
	}, s)
}
