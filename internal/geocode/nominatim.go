// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/grubsync/internal/models"
)

var _ Geocoder = (*NominatimClient)(nil)

// NominatimClient calls an OpenStreetMap Nominatim search endpoint.
// Nominatim's usage policy requires an identifying User-Agent.
type NominatimClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: newHTTPClient(timeout),
	}
}

// nominatimPlace carries lat/lon as decimal strings.
type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *NominatimClient) Name() string { return "nominatim" }

func (c *NominatimClient) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	endpoint := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Coordinate{}, upstreamError(c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinate{}, upstreamError(c.Name(), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return models.Coordinate{}, upstreamError(c.Name(), fmt.Errorf("decode response: %w", err))
	}
	if len(places) == 0 {
		return models.Coordinate{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return models.Coordinate{}, upstreamError(c.Name(), fmt.Errorf("parse lat %q: %w", places[0].Lat, err))
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return models.Coordinate{}, upstreamError(c.Name(), fmt.Errorf("parse lon %q: %w", places[0].Lon, err))
	}

	return models.Coordinate{Latitude: lat, Longitude: lon}, nil
}
