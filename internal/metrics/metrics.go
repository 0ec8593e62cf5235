// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grubsync_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "grubsync_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Pipeline Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_recommendation_requests_total",
			Help: "Recommendation runs by outcome (success or error kind)",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grubsync_recommendation_duration_seconds",
			Help:    "End-to-end recommendation pipeline duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grubsync_recommendation_candidates",
			Help:    "Distinct candidates found per recommendation run",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 200, 400},
		},
	)

	GeocodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_geocode_requests_total",
			Help: "Geocoding lookups by provider and result",
		},
		[]string{"provider", "result"}, // result: "resolved", "no_match", "error", "skipped"
	)

	GeocodeCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_geocode_cache_lookups_total",
			Help: "Geocode cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	ZoneSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_zone_searches_total",
			Help: "Zone searches by pass and result",
		},
		[]string{"pass", "result"}, // pass: "primary", "fallback"; result: "ok", "empty", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grubsync_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grubsync_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grubsync_db_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_db_query_errors_total",
			Help: "Total number of failed store queries",
		},
		[]string{"operation", "table"},
	)

	// Sink Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_events_published_total",
			Help: "Recommendation events handed to Kafka by result",
		},
		[]string{"result"}, // result: "ok", "error", "dropped"
	)

	EventQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "grubsync_event_queue_depth",
			Help: "Events waiting to be written to Kafka",
		},
	)

	ArchiveWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grubsync_archive_writes_total",
			Help: "Recommendation snapshots written to object storage by result",
		},
		[]string{"result"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "grubsync_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records a finished pipeline run. outcome is
// "success" or the error kind.
func RecordRecommendation(outcome string, duration time.Duration, candidates int) {
	RecommendationRequests.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
	if outcome == "success" {
		RecommendationCandidates.Observe(float64(candidates))
	}
}

// RecordGeocode records one address lookup.
func RecordGeocode(provider, result string) {
	GeocodeRequests.WithLabelValues(provider, result).Inc()
}

// RecordGeocodeCache records one geocode cache lookup.
func RecordGeocodeCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	GeocodeCacheLookups.WithLabelValues(result).Inc()
}

// RecordZoneSearch records one zone search.
func RecordZoneSearch(pass, result string) {
	ZoneSearches.WithLabelValues(pass, result).Inc()
}

// RecordDBQuery records a store query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordEventPublish records the fate of one recommendation event.
func RecordEventPublish(result string) {
	EventsPublished.WithLabelValues(result).Inc()
}

// RecordArchiveWrite records one snapshot upload.
func RecordArchiveWrite(err error) {
	if err != nil {
		ArchiveWrites.WithLabelValues("error").Inc()
		return
	}
	ArchiveWrites.WithLabelValues("ok").Inc()
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
