// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/grubsync/internal/models"
)

func TestNominatimClient_Geocode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "grubsync-test/1.0" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		q := r.URL.Query()
		if r.URL.Path != "/search" || q.Get("format") != "json" || q.Get("limit") != "1" {
			t.Errorf("request = %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		switch q.Get("q") {
		case "Portland, OR":
			_, _ = w.Write([]byte(`[{"lat":"45.5152","lon":"-122.6784","display_name":"Portland"}]`))
		case "bad coords":
			_, _ = w.Write([]byte(`[{"lat":"north","lon":"0"}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "grubsync-test/1.0", time.Second)

	got, err := client.Geocode(context.Background(), "Portland, OR")
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}
	if got.Latitude != 45.5152 || got.Longitude != -122.6784 {
		t.Errorf("Geocode() = %+v", got)
	}

	if _, err := client.Geocode(context.Background(), "Atlantis"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("unknown place error = %v, want ErrNoMatch", err)
	}

	if _, err := client.Geocode(context.Background(), "bad coords"); models.KindOf(err) != models.KindUpstreamUnavailable {
		t.Errorf("bad coords error = %v, want upstream_unavailable", err)
	}
}
