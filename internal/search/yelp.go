// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/grubsync/internal/logging"
	"github.com/tomtom215/grubsync/internal/models"
)

var _ Searcher = (*YelpClient)(nil)

// YelpClient calls the Yelp Fusion business search endpoint.
type YelpClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewYelpClient creates a client for baseURL, normally https://api.yelp.com.
func NewYelpClient(baseURL, apiKey string, timeout time.Duration) *YelpClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &YelpClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type yelpBusiness struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	ImageURL    string            `json:"image_url"`
	URL         string            `json:"url"`
	Rating      float64           `json:"rating"`
	ReviewCount int               `json:"review_count"`
	Price       string            `json:"price"`
	Phone       string            `json:"display_phone"`
	Distance    float64           `json:"distance"`
	Categories  []models.Category `json:"categories"`
	Coordinates struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
}

type yelpResponse struct {
	Businesses []yelpBusiness `json:"businesses"`
	Total      int            `json:"total"`
}

func (c *YelpClient) Name() string { return "yelp" }

// Search runs one business search around center.
func (c *YelpClient) Search(ctx context.Context, center models.Coordinate, f Filters) ([]models.Candidate, error) {
	endpoint := c.baseURL + "/v3/businesses/search?" + buildQuery(center, f).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("url", logging.SanitizeURL(endpoint)).Msg("Yelp request failed")
		return nil, c.upstream(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.upstream(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body yelpResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, c.upstream(fmt.Errorf("decode response: %w", err))
	}

	candidates := make([]models.Candidate, 0, len(body.Businesses))
	for i := range body.Businesses {
		candidates = append(candidates, body.Businesses[i].toCandidate())
	}
	return candidates, nil
}

func (c *YelpClient) upstream(err error) error {
	return models.WrapError(models.KindUpstreamUnavailable, c.Name()+" search unavailable", err)
}

func buildQuery(center models.Coordinate, f Filters) url.Values {
	q := url.Values{}
	if f.Term != "" {
		q.Set("term", f.Term)
	}
	q.Set("latitude", strconv.FormatFloat(center.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(center.Longitude, 'f', -1, 64))
	if cats := f.CategoryParam(); cats != "" {
		q.Set("categories", cats)
	}
	if f.Price != "" {
		q.Set("price", f.Price)
	}
	if f.RadiusMeters > 0 {
		q.Set("radius", strconv.Itoa(f.RadiusMeters))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.SortBy != "" {
		q.Set("sort_by", f.SortBy)
	}
	if f.OpenNow {
		q.Set("open_now", "true")
	}
	return q
}

func (b *yelpBusiness) toCandidate() models.Candidate {
	return models.Candidate{
		ID:          b.ID,
		Name:        b.Name,
		ImageURL:    b.ImageURL,
		URL:         b.URL,
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		Price:       models.BudgetTier(b.Price),
		Address:     strings.Join(b.Location.DisplayAddress, ", "),
		Categories:  b.Categories,
		Phone:       b.Phone,
		Coordinates: models.Coordinate{
			Latitude:  b.Coordinates.Latitude,
			Longitude: b.Coordinates.Longitude,
		},
		ProviderDistanceMeters: b.Distance,
	}
}
