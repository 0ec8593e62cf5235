// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package geocode

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/grubsync/internal/breaker"
	"github.com/tomtom215/grubsync/internal/config"
	"github.com/tomtom215/grubsync/internal/models"
)

// fakeGeocoder answers from a map; unknown addresses are no-match and
// addresses listed in failing return an upstream error.
type fakeGeocoder struct {
	known    map[string]models.Coordinate
	failing  map[string]bool
	delay    time.Duration
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeGeocoder) Name() string { return "fake" }

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return models.Coordinate{}, upstreamError("fake", ctx.Err())
		}
	}
	if f.failing[address] {
		return models.Coordinate{}, upstreamError("fake", errors.New("connection refused"))
	}
	if c, ok := f.known[address]; ok {
		return c, nil
	}
	return models.Coordinate{}, ErrNoMatch
}

func TestAdapter_Resolve(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoder{
		known:   map[string]models.Coordinate{"Austin": {Latitude: 30.27, Longitude: -97.74}},
		failing: map[string]bool{"Broken": true},
	}
	a := NewAdapter(fake, time.Second, 4)

	if c, ok := a.Resolve(context.Background(), "  Austin "); !ok || c.Latitude != 30.27 {
		t.Errorf("Resolve(Austin) = %+v, %v", c, ok)
	}
	if _, ok := a.Resolve(context.Background(), "Nowhere"); ok {
		t.Error("Resolve(Nowhere) should not resolve")
	}
	if _, ok := a.Resolve(context.Background(), "Broken"); ok {
		t.Error("Resolve(Broken) should not resolve")
	}

	calls := fake.calls.Load()
	if _, ok := a.Resolve(context.Background(), "   "); ok {
		t.Error("blank address should not resolve")
	}
	if fake.calls.Load() != calls {
		t.Error("blank address should not reach the provider")
	}
}

func TestAdapter_ResolveTimeout(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoder{
		known: map[string]models.Coordinate{"Slow": {Latitude: 1, Longitude: 1}},
		delay: time.Second,
	}
	a := NewAdapter(fake, 20*time.Millisecond, 1)

	start := time.Now()
	if _, ok := a.Resolve(context.Background(), "Slow"); ok {
		t.Error("slow lookup should time out")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Resolve took %v, per-call timeout not applied", elapsed)
	}
}

func TestAdapter_ResolveAll(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoder{
		known: map[string]models.Coordinate{
			"A": {Latitude: 1, Longitude: 1},
			"C": {Latitude: 3, Longitude: 3},
			"E": {Latitude: 5, Longitude: 5},
		},
		failing: map[string]bool{"D": true},
		delay:   10 * time.Millisecond,
	}
	a := NewAdapter(fake, time.Second, 2)

	addresses := []string{"A", "B", "C", "D", "E", ""}
	got := a.ResolveAll(context.Background(), addresses)

	if len(got) != len(addresses) {
		t.Fatalf("len = %d, want %d", len(got), len(addresses))
	}
	wantOK := []bool{true, false, true, false, true, false}
	for i, r := range got {
		if r.Address != addresses[i] {
			t.Errorf("result %d address = %q, want %q", i, r.Address, addresses[i])
		}
		if r.OK != wantOK[i] {
			t.Errorf("result %d OK = %v, want %v", i, r.OK, wantOK[i])
		}
	}
	if got[2].Coordinate.Latitude != 3 {
		t.Errorf("result 2 = %+v, want C's coordinate", got[2].Coordinate)
	}
	if peak := fake.maxSeen.Load(); peak > 2 {
		t.Errorf("max concurrent lookups = %d, want <= 2", peak)
	}
}

func TestBreakerGeocoder_NoMatchDoesNotTrip(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoder{}
	g := NewBreakerGeocoder(fake, breaker.DefaultConfig())

	for i := 0; i < 25; i++ {
		if _, err := g.Geocode(context.Background(), "unknown"); !errors.Is(err, ErrNoMatch) {
			t.Fatalf("call %d error = %v, want ErrNoMatch", i, err)
		}
	}
	if fake.calls.Load() != 25 {
		t.Errorf("provider calls = %d, want 25", fake.calls.Load())
	}
}

func TestBreakerGeocoder_OpenIsUpstreamUnavailable(t *testing.T) {
	t.Parallel()

	fake := &fakeGeocoder{failing: map[string]bool{"x": true}}
	g := NewBreakerGeocoder(fake, breaker.DefaultConfig())

	for i := 0; i < 10; i++ {
		_, _ = g.Geocode(context.Background(), "x")
	}
	calls := fake.calls.Load()

	_, err := g.Geocode(context.Background(), "x")
	if !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want upstream_unavailable", err)
	}
	if fake.calls.Load() != calls {
		t.Error("open breaker should not call the provider")
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	g, err := NewFromConfig(config.GeocodingConfig{Provider: "nominatim", BaseURL: "http://localhost", UserAgent: "ua"}, breaker.DefaultConfig())
	if err != nil || g.Name() != "nominatim" {
		t.Errorf("NewFromConfig(nominatim) = %v, %v", g, err)
	}
	if _, err := NewFromConfig(config.GeocodingConfig{Provider: "bing"}, breaker.DefaultConfig()); err == nil {
		t.Error("unknown provider should fail")
	}
}
