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
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/models"
)

var _ Geocoder = (*GoogleClient)(nil)

// GoogleClient calls the Google Geocoding API.
type GoogleClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGoogleClient creates a client for baseURL, normally
// https://maps.googleapis.com.
func NewGoogleClient(baseURL, apiKey string, timeout time.Duration) *GoogleClient {
	return &GoogleClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: newHTTPClient(timeout),
	}
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *GoogleClient) Name() string { return "google" }

// Geocode returns the first result's location. ZERO_RESULTS and an empty
// result list map to ErrNoMatch; every other failure is upstream_unavailable.
func (c *GoogleClient) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + "/maps/api/geocode/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("url", logging.SanitizeURL(endpoint)).Msg("Geocode request failed")
		return models.Coordinate{}, upstreamError(c.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinate{}, upstreamError(c.Name(), fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Coordinate{}, upstreamError(c.Name(), fmt.Errorf("decode response: %w", err))
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return models.Coordinate{}, ErrNoMatch
	default:
		return models.Coordinate{}, upstreamError(c.Name(), fmt.Errorf("status %s: %s", body.Status, body.ErrorMessage))
	}

	if len(body.Results) == 0 {
		return models.Coordinate{}, ErrNoMatch
	}

	loc := body.Results[0].Geometry.Location
	return models.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}, nil
}
