// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package postgres

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/grubsync/internal/models"
)

// setupStore connects to GRUBSYNC_TEST_POSTGRES_DSN or skips.
func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("GRUBSYNC_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("GRUBSYNC_TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := New(ctx, dsn, 4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNew_InvalidDSN(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), "postgres://%zz", 1); err == nil {
		t.Error("New() accepted a malformed dsn")
	}
}

func TestOwnerFirst(t *testing.T) {
	t.Parallel()

	if got := ownerFirst("o", []string{"o", "x", "x"}); !reflect.DeepEqual(got, []string{"o", "x"}) {
		t.Errorf("ownerFirst() = %v", got)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	id := "test-" + uuid.NewString()

	if err := s.CreateGroup(ctx, &models.Group{ID: id, Name: "pg", OwnerID: "alice", Members: []string{"bob"}}); err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	g, err := s.AddMember(ctx, id, "carol")
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if !reflect.DeepEqual(g.Members, []string{"alice", "bob", "carol"}) {
		t.Errorf("members = %v", g.Members)
	}

	if _, err := s.GetGroup(ctx, id+"-missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetGroup(missing) error = %v", err)
	}

	for _, p := range []*models.MemberPreference{
		{UserID: "bob", GroupID: id, Cuisines: []string{"Thai"}, SpiceLevel: 3, Budget: "$", Location: "x"},
		{UserID: "alice", GroupID: id, Cuisines: []string{"Greek"}, SpiceLevel: 1, Budget: "$$", Location: "y",
			Coordinates: &models.Coordinate{Latitude: 1, Longitude: 2}},
		{UserID: "bob", GroupID: id, Cuisines: []string{"Korean"}, SpiceLevel: 4, Budget: "$$$", Location: "z"},
	} {
		if err := s.UpsertPreference(ctx, p); err != nil {
			t.Fatalf("UpsertPreference() error = %v", err)
		}
	}
	prefs, err := s.ListPreferences(ctx, id)
	if err != nil {
		t.Fatalf("ListPreferences() error = %v", err)
	}
	if len(prefs) != 2 || prefs[0].UserID != "alice" || prefs[1].Cuisines[0] != "Korean" {
		t.Errorf("prefs = %+v", prefs)
	}

	if _, err := s.LatestRecommendation(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("LatestRecommendation() before save error = %v", err)
	}
	res := &models.RecommendationResult{GroupID: id, Restaurants: []models.Candidate{{ID: "r1"}}}
	if err := s.SaveRecommendation(ctx, res); err != nil {
		t.Fatalf("SaveRecommendation() error = %v", err)
	}
	rec, err := s.LatestRecommendation(ctx, id)
	if err != nil || rec.Result.Restaurants[0].ID != "r1" {
		t.Errorf("LatestRecommendation() = %+v, %v", rec, err)
	}
}
