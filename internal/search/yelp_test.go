// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/grubsync/internal/models"
)

const yelpBody = `{
  "total": 2,
  "businesses": [
    {
      "id": "luigis-1",
      "name": "Luigi's",
      "image_url": "https://img.example/luigi.jpg",
      "url": "https://yelp.example/luigis",
      "rating": 4.5,
      "review_count": 320,
      "price": "$$",
      "display_phone": "(555) 010-0001",
      "distance": 812.4,
      "categories": [{"alias": "italian", "title": "Italian"}, {"alias": "pizza", "title": "Pizza"}],
      "coordinates": {"latitude": 40.71, "longitude": -74.0},
      "location": {"display_address": ["1 Main St", "New York, NY 10001"]}
    },
    {
      "id": "taco-2",
      "name": "Taco Two",
      "rating": 4.0,
      "review_count": 12,
      "categories": [{"alias": "mexican", "title": "Mexican"}],
      "coordinates": {"latitude": 40.72, "longitude": -74.01},
      "location": {"display_address": []}
    }
  ]
}`

func TestYelpClient_Search(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/businesses/search" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			gotQuery[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(yelpBody))
	}))
	defer srv.Close()

	client := NewYelpClient(srv.URL+"/", "secret-key", time.Second)
	f := Filters{
		Term:         "restaurants",
		Categories:   []string{"Italian", " Mexican "},
		Price:        "1,2",
		RadiusMeters: 12875,
		Limit:        20,
		SortBy:       "rating",
		OpenNow:      true,
	}
	got, err := client.Search(context.Background(), models.Coordinate{Latitude: 40.5, Longitude: -74.25}, f)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	wantQuery := map[string]string{
		"term":       "restaurants",
		"latitude":   "40.5",
		"longitude":  "-74.25",
		"categories": "italian,mexican",
		"price":      "1,2",
		"radius":     "12875",
		"limit":      "20",
		"sort_by":    "rating",
		"open_now":   "true",
	}
	for k, v := range wantQuery {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	first := got[0]
	if first.ID != "luigis-1" || first.Price != models.BudgetModerate || first.ReviewCount != 320 {
		t.Errorf("first = %+v", first)
	}
	if first.Address != "1 Main St, New York, NY 10001" {
		t.Errorf("Address = %q", first.Address)
	}
	if first.Phone != "(555) 010-0001" || first.ProviderDistanceMeters != 812.4 {
		t.Errorf("phone/distance = %q/%f", first.Phone, first.ProviderDistanceMeters)
	}
	if len(first.Categories) != 2 || first.Categories[1].Alias != "pizza" {
		t.Errorf("Categories = %+v", first.Categories)
	}
	if got[1].Price != "" || got[1].Address != "" {
		t.Errorf("second = %+v, want empty price and address", got[1])
	}
}

func TestYelpClient_OmitsEmptyParams(t *testing.T) {
	t.Parallel()

	q := buildQuery(models.Coordinate{Latitude: 1, Longitude: 2}, Filters{})
	for _, key := range []string{"term", "categories", "price", "radius", "limit", "sort_by", "open_now"} {
		if q.Has(key) {
			t.Errorf("query unexpectedly has %s=%q", key, q.Get(key))
		}
	}
}

func TestYelpClient_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":"TOKEN_INVALID"}}`},
		{"malformed body", http.StatusOK, `{"businesses": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewYelpClient(srv.URL, "k", time.Second).Search(context.Background(), models.Coordinate{}, Filters{})
			if !errors.Is(err, models.ErrUpstreamUnavailable) {
				t.Errorf("error = %v, want upstream_unavailable", err)
			}
		})
	}
}
