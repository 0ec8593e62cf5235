// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/grubsync/internal/auth"
	"github.com/tomtom215/grubsync/internal/models"
)

var fixedNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

// memStore is an in-memory GroupStore.
type memStore struct {
	mu      sync.Mutex
	groups  map[string]*models.Group
	prefs   map[string][]models.MemberPreference
	latest  map[string]*models.StoredRecommendation
	failAll error
	pingErr error
}

func newMemStore() *memStore {
	return &memStore{
		groups: make(map[string]*models.Group),
		prefs:  make(map[string][]models.MemberPreference),
		latest: make(map[string]*models.StoredRecommendation),
	}
}

func (s *memStore) CreateGroup(_ context.Context, g *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	cp := *g
	cp.Members = append([]string(nil), g.Members...)
	s.groups[g.ID] = &cp
	return nil
}

func (s *memStore) GetGroup(_ context.Context, id string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	g, ok := s.groups[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *g
	cp.Members = append([]string(nil), g.Members...)
	return &cp, nil
}

func (s *memStore) AddMember(ctx context.Context, id, userID string) (*models.Group, error) {
	s.mu.Lock()
	g, ok := s.groups[id]
	if ok && !g.HasMember(userID) {
		g.Members = append(g.Members, userID)
	}
	s.mu.Unlock()
	return s.GetGroup(ctx, id)
}

func (s *memStore) UpsertPreference(_ context.Context, p *models.MemberPreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.prefs[p.GroupID]
	for i := range list {
		if list[i].UserID == p.UserID {
			list[i] = *p
			return nil
		}
	}
	s.prefs[p.GroupID] = append(list, *p)
	return nil
}

func (s *memStore) ListPreferences(_ context.Context, id string) ([]models.MemberPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MemberPreference{}, s.prefs[id]...), nil
}

func (s *memStore) LatestRecommendation(_ context.Context, id string) (*models.StoredRecommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.latest[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "no recommendations generated for this group yet")
	}
	return rec, nil
}

func (s *memStore) Ping(context.Context) error { return s.pingErr }

type fakeEngine struct {
	result      *models.RecommendationResult
	err         error
	gotGroup    string
	gotUser     string
	hadDeadline bool
}

func (e *fakeEngine) GenerateRecommendations(ctx context.Context, groupID, requesterID string) (*models.RecommendationResult, error) {
	e.gotGroup, e.gotUser = groupID, requesterID
	_, e.hadDeadline = ctx.Deadline()
	return e.result, e.err
}

type fakeResolver map[string]models.Coordinate

func (f fakeResolver) Resolve(_ context.Context, address string) (models.Coordinate, bool) {
	c, ok := f[address]
	return c, ok
}

type testServer struct {
	store   *memStore
	engine  *fakeEngine
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := newMemStore()
	engine := &fakeEngine{}
	resolver := fakeResolver{"1 Main St": {Latitude: 40.7, Longitude: -74.0}}

	ids := 0
	h := NewHandler(store, engine, resolver, HandlerOptions{
		Version: "test",
		IDGenerator: func() string {
			ids++
			return fmt.Sprintf("group-%d", ids)
		},
		Now: func() time.Time { return fixedNow },
	})

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	router := NewRouter(h, auth.NewMiddleware(nil, auth.ModeNone), NewChiMiddleware(cfg))

	return &testServer{store: store, engine: engine, handler: router.SetupChi()}
}

func (ts *testServer) do(t *testing.T, method, path, user string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(auth.UserIDHeader, user)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var resp APIResponse
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

// decodeData re-decodes the envelope data into dst.
func decodeData(t *testing.T, resp APIResponse, dst interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func seedGroup(ts *testServer, members ...string) {
	ts.store.groups["g1"] = &models.Group{ID: "g1", Name: "Lunch", OwnerID: members[0], Members: members, CreatedAt: fixedNow}
}

func validPreference() map[string]interface{} {
	return map[string]interface{}{
		"cuisines":             []string{"Italian", " Thai "},
		"dietary_restrictions": []string{"Vegan"},
		"spice_level":          3,
		"budget":               "$$",
		"location":             "1 Main St",
	}
}

func TestCreateGroup(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/groups", "alice", map[string]interface{}{
		"name":    " Friday lunch ",
		"members": []string{"bob", "alice"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !resp.Success || resp.Meta == nil {
		t.Errorf("envelope = %+v", resp)
	}

	var g models.Group
	decodeData(t, resp, &g)
	if g.ID != "group-1" || g.Name != "Friday lunch" || g.OwnerID != "alice" {
		t.Errorf("group = %+v", g)
	}
	if stored := ts.store.groups["group-1"]; stored == nil || stored.Members[0] != "alice" {
		t.Errorf("stored group = %+v", stored)
	}
}

func TestCreateGroup_Invalid(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	tests := []struct {
		name     string
		body     interface{}
		wantCode string
	}{
		{"missing name", map[string]interface{}{}, ErrCodeValidationFailed},
		{"blank name", map[string]interface{}{"name": "   "}, ErrCodeValidationFailed},
		{"malformed json", "{", ErrCodeBadRequest},
		{"unknown field", map[string]interface{}{"name": "x", "owner": "mallory"}, ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := ts.do(t, http.MethodPost, "/api/v1/groups", "alice", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestGetGroup(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	seedGroup(ts, "alice", "bob")

	tests := []struct {
		name       string
		path       string
		user       string
		wantStatus int
		wantCode   string
	}{
		{"member", "/api/v1/groups/g1", "bob", http.StatusOK, ""},
		{"non-member", "/api/v1/groups/g1", "mallory", http.StatusForbidden, ErrCodeForbidden},
		{"missing group", "/api/v1/groups/nope", "alice", http.StatusNotFound, ErrCodeNotFound},
		{"unauthenticated", "/api/v1/groups/g1", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := ts.do(t, http.MethodGet, tt.path, tt.user, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" && (resp.Error == nil || resp.Error.Code != tt.wantCode) {
				t.Errorf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestJoinGroup(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	seedGroup(ts, "alice")

	for i := 0; i < 2; i++ {
		rec, resp := ts.do(t, http.MethodPost, "/api/v1/groups/g1/members", "carol", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("join #%d status = %d", i+1, rec.Code)
		}
		var g models.Group
		decodeData(t, resp, &g)
		if len(g.Members) != 2 || g.Members[1] != "carol" {
			t.Errorf("join #%d members = %v", i+1, g.Members)
		}
	}

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/groups/missing/members", "carol", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("join missing group status = %d, want 404", rec.Code)
	}
}

func TestUpsertPreference(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	seedGroup(ts, "alice", "bob")

	rec, resp := ts.do(t, http.MethodPut, "/api/v1/groups/g1/preferences", "bob", validPreference())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var pref models.MemberPreference
	decodeData(t, resp, &pref)
	if pref.UserID != "bob" || pref.GroupID != "g1" {
		t.Errorf("pref identity = %s/%s", pref.UserID, pref.GroupID)
	}
	if pref.Coordinates == nil || pref.Coordinates.Latitude != 40.7 {
		t.Errorf("coordinates = %+v", pref.Coordinates)
	}
	if pref.Cuisines[1] != "Thai" {
		t.Errorf("cuisines = %v, want trimmed", pref.Cuisines)
	}
	if !pref.UpdatedAt.Equal(fixedNow) {
		t.Errorf("updated_at = %v", pref.UpdatedAt)
	}

	body := validPreference()
	body["budget"] = "$$$"
	if rec, _ := ts.do(t, http.MethodPut, "/api/v1/groups/g1/preferences", "bob", body); rec.Code != http.StatusOK {
		t.Fatalf("resubmit status = %d", rec.Code)
	}
	if got := ts.store.prefs["g1"]; len(got) != 1 || got[0].Budget != models.BudgetHigh {
		t.Errorf("stored prefs = %+v, want one record with $$$", got)
	}
}

func TestUpsertPreference_Rejections(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	seedGroup(ts, "alice")

	badSpice := validPreference()
	badSpice["spice_level"] = 7
	badBudget := validPreference()
	badBudget["budget"] = "cheap"
	badAddress := validPreference()
	badAddress["location"] = "Atlantis"

	tests := []struct {
		name       string
		user       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"spice out of range", "alice", badSpice, http.StatusBadRequest, ErrCodeValidationFailed},
		{"unknown budget", "alice", badBudget, http.StatusBadRequest, ErrCodeValidationFailed},
		{"unresolvable address", "alice", badAddress, http.StatusBadRequest, ErrCodeInvalidAddress},
		{"non-member", "mallory", validPreference(), http.StatusForbidden, ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := ts.do(t, http.MethodPut, "/api/v1/groups/g1/preferences", tt.user, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
		})
	}

	if len(ts.store.prefs["g1"]) != 0 {
		t.Errorf("rejected submissions were stored: %+v", ts.store.prefs["g1"])
	}
}

func TestListPreferences(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	seedGroup(ts, "alice", "bob")
	ts.store.prefs["g1"] = []models.MemberPreference{{UserID: "alice", GroupID: "g1"}, {UserID: "bob", GroupID: "g1"}}

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/groups/g1/preferences", "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var prefs []models.MemberPreference
	decodeData(t, resp, &prefs)
	if len(prefs) != 2 {
		t.Errorf("len = %d, want 2", len(prefs))
	}

	if rec, _ := ts.do(t, http.MethodGet, "/api/v1/groups/g1/preferences", "mallory", nil); rec.Code != http.StatusForbidden {
		t.Errorf("non-member status = %d, want 403", rec.Code)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.engine.result = &models.RecommendationResult{
		GroupID:     "g1",
		RequesterID: "alice",
		Restaurants: []models.Candidate{{ID: "r1", Name: "Trattoria", MatchScore: 91}},
	}

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/groups/g1/recommendations", "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ts.engine.gotGroup != "g1" || ts.engine.gotUser != "alice" {
		t.Errorf("engine called with %s/%s", ts.engine.gotGroup, ts.engine.gotUser)
	}
	if !ts.engine.hadDeadline {
		t.Error("engine context has no deadline")
	}

	var result models.RecommendationResult
	decodeData(t, resp, &result)
	if len(result.Restaurants) != 1 || result.Restaurants[0].MatchScore != 91 {
		t.Errorf("restaurants = %+v", result.Restaurants)
	}
}

func TestGenerateRecommendations_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{models.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{models.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{models.ErrNoPreferences, http.StatusBadRequest, ErrCodeNoPreferences},
		{models.ErrMissingOwnPreference, http.StatusBadRequest, ErrCodeMissingOwnPreference},
		{models.ErrNoValidLocations, http.StatusUnprocessableEntity, ErrCodeNoValidLocations},
		{models.ErrNoResults, http.StatusNotFound, ErrCodeNoResults},
		{models.WrapError(models.KindUpstreamUnavailable, "search provider unavailable", errors.New("503")), http.StatusBadGateway, ErrCodeUpstreamUnavailable},
		{models.ErrEmptyInput, http.StatusInternalServerError, ErrCodeInternalError},
		{fmt.Errorf("load group: %w", errors.New("disk on fire")), http.StatusInternalServerError, ErrCodeDatabaseError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, ErrCodeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t)
			ts.engine.err = tt.err

			rec, resp := ts.do(t, http.MethodPost, "/api/v1/groups/g1/recommendations", "alice", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Fatalf("error = %+v, want %s", resp.Error, tt.wantCode)
			}
			if strings.Contains(resp.Error.Message, "disk on fire") {
				t.Errorf("internal cause leaked: %q", resp.Error.Message)
			}
		})
	}
}

func TestLatestRecommendation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	seedGroup(ts, "alice")

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/groups/g1/recommendations/latest", "alice", nil)
	if rec.Code != http.StatusNotFound || resp.Error.Code != ErrCodeNotFound {
		t.Fatalf("empty latest: status %d error %+v", rec.Code, resp.Error)
	}

	ts.store.latest["g1"] = &models.StoredRecommendation{
		GroupID:     "g1",
		Result:      &models.RecommendationResult{GroupID: "g1"},
		LastUpdated: fixedNow,
	}
	rec, resp = ts.do(t, http.MethodGet, "/api/v1/groups/g1/recommendations/latest", "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stored models.StoredRecommendation
	decodeData(t, resp, &stored)
	if !stored.LastUpdated.Equal(fixedNow) || stored.Result == nil {
		t.Errorf("stored = %+v", stored)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var health HealthStatus
	decodeData(t, resp, &health)
	if health.Status != "healthy" || !health.DatabaseConnected || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}

	ts.store.pingErr = errors.New("down")
	_, resp = ts.do(t, http.MethodGet, "/api/v1/health", "", nil)
	decodeData(t, resp, &health)
	if health.Status != "degraded" || health.DatabaseConnected {
		t.Errorf("degraded health = %+v", health)
	}
}

func TestStorageErrorsAreNotLeaked(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.store.failAll = errors.New("connection refused to 10.0.0.5")

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/groups", "alice", map[string]interface{}{"name": "x"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Error.Code != ErrCodeDatabaseError || strings.Contains(resp.Error.Message, "10.0.0.5") {
		t.Errorf("error = %+v", resp.Error)
	}
}
