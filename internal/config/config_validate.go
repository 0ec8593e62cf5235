// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and within bounds.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateGeocoding,
		c.validateSearch,
		c.validateRecommend,
		c.validateBreaker,
		c.validateSecurity,
		c.validateKafka,
		c.validateArchive,
		c.validateLogging,
	}
	return runValidators(validators)
}

// ValidatePipeline checks only what the recommendation pipeline and its
// result sinks use.
func (c *Config) ValidatePipeline() error {
	return runValidators([]func() error{
		c.validateDatabase,
		c.validateGeocoding,
		c.validateSearch,
		c.validateRecommend,
		c.validateBreaker,
		c.validateKafka,
		c.validateArchive,
		c.validateLogging,
	})
}

func runValidators(validators []func() error) error {
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DATABASE_DRIVER=duckdb")
		}
	case "postgres":
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when DATABASE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of: duckdb, postgres")
	}
	return nil
}

func (c *Config) validateGeocoding() error {
	switch c.Geocoding.Provider {
	case "google":
		if c.Geocoding.APIKey == "" {
			return fmt.Errorf("GOOGLE_MAPS_API_KEY is required when GEOCODING_PROVIDER=google")
		}
	case "nominatim":
		if c.Geocoding.UserAgent == "" {
			return fmt.Errorf("NOMINATIM_USER_AGENT is required when GEOCODING_PROVIDER=nominatim")
		}
	default:
		return fmt.Errorf("GEOCODING_PROVIDER must be one of: google, nominatim")
	}
	if c.Geocoding.BaseURL == "" {
		return fmt.Errorf("GEOCODING_BASE_URL must not be empty")
	}
	if c.Geocoding.CacheSize < 0 {
		return fmt.Errorf("GEOCODING_CACHE_SIZE must not be negative")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.APIKey == "" {
		return fmt.Errorf("YELP_API_KEY is required")
	}
	if c.Search.BaseURL == "" {
		return fmt.Errorf("YELP_BASE_URL must not be empty")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.RadiusMiles <= 0 {
		return fmt.Errorf("RECOMMEND_RADIUS_MILES must be positive")
	}
	if r.RingPoints < 0 {
		return fmt.Errorf("RECOMMEND_RING_POINTS must not be negative")
	}
	if r.TopCuisines < 1 {
		return fmt.Errorf("RECOMMEND_TOP_CUISINES must be at least 1")
	}
	if r.MaxResults < 1 {
		return fmt.Errorf("RECOMMEND_MAX_RESULTS must be at least 1")
	}
	if r.ZoneLimit < 1 || r.FallbackLimit < 1 {
		return fmt.Errorf("RECOMMEND_ZONE_LIMIT and RECOMMEND_FALLBACK_LIMIT must be at least 1")
	}
	if r.DistanceWindowMiles <= 0 {
		return fmt.Errorf("RECOMMEND_DISTANCE_WINDOW_MILES must be positive")
	}
	if r.CallTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_CALL_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if err := c.validateAuthMode(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

func (c *Config) validateAuthMode() error {
	switch c.Security.AuthMode {
	case "none":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
		}
		return nil
	case "jwt":
		return c.validateJWTSecret()
	default:
		return fmt.Errorf("AUTH_MODE must be one of: jwt, none")
	}
}

func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_MODE is jwt")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateCORS rejects wildcard origins in production when authentication
// is enabled.
func (c *Config) validateCORS() error {
	if c.Security.AuthMode != "none" && c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production with authentication enabled; " +
			"set explicit origins, e.g. CORS_ORIGINS=https://app.example.com")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard CORS policy combined with auth.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && c.hasWildcardCORS()
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateKafka() error {
	if !c.Kafka.Enabled {
		return nil
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_ENABLED=true")
	}
	if c.Kafka.QueueSize < 1 {
		return fmt.Errorf("KAFKA_QUEUE_SIZE must be at least 1")
	}
	return nil
}

func (c *Config) validateArchive() error {
	if !c.Archive.Enabled {
		return nil
	}
	if c.Archive.Endpoint == "" {
		return fmt.Errorf("MINIO_ENDPOINT is required when ARCHIVE_ENABLED=true")
	}
	if c.Archive.AccessKey == "" || c.Archive.SecretKey == "" {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when ARCHIVE_ENABLED=true")
	}
	if c.Archive.Bucket == "" {
		return fmt.Errorf("ARCHIVE_BUCKET is required when ARCHIVE_ENABLED=true")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
