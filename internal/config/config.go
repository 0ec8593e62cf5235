// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Geocoding GeocodingConfig `koanf:"geocoding"`
	Search    SearchConfig    `koanf:"search"`
	Recommend RecommendConfig `koanf:"recommend"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	Archive   ArchiveConfig   `koanf:"archive"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// RequestTimeout bounds a single recommendation run started over HTTP.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// Environment is development or production. Production enables
	// stricter security validation.
	Environment string `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects and configures the preference store.
type DatabaseConfig struct {
	// Driver is duckdb or postgres.
	Driver string `koanf:"driver"`

	// DuckDB settings.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()

	// CheckpointInterval is how often the DuckDB WAL is folded into the
	// database file.
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`

	// SkipIndexes skips secondary index creation (tests only).
	SkipIndexes bool `koanf:"skip_indexes"`

	// PostgreSQL settings.
	PostgresDSN string `koanf:"postgres_dsn"`
	MaxConns    int32  `koanf:"max_conns"`
}

// GeocodingConfig configures address resolution.
type GeocodingConfig struct {
	// Provider is google or nominatim.
	Provider  string        `koanf:"provider"`
	APIKey    string        `koanf:"api_key"`
	BaseURL   string        `koanf:"base_url"`
	UserAgent string        `koanf:"user_agent"`
	Timeout   time.Duration `koanf:"timeout"`

	// CacheSize bounds the in-process result cache. Zero disables it.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// SearchConfig configures the restaurant search provider.
type SearchConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// RecommendConfig tunes the ranking pipeline.
type RecommendConfig struct {
	RadiusMiles         float64       `koanf:"radius_miles"`
	RingPoints          int           `koanf:"ring_points"`
	TopCuisines         int           `koanf:"top_cuisines"`
	ZoneLimit           int           `koanf:"zone_limit"`
	FallbackLimit       int           `koanf:"fallback_limit"`
	MinResults          int           `koanf:"min_results"`
	FallbackZones       int           `koanf:"fallback_zones"`
	MaxResults          int           `koanf:"max_results"`
	DistanceWindowMiles float64       `koanf:"distance_window_miles"`
	CallTimeout         time.Duration `koanf:"call_timeout"`
	GeocodeConcurrency  int           `koanf:"geocode_concurrency"`
	SearchConcurrency   int           `koanf:"search_concurrency"`
	SortBy              string        `koanf:"sort_by"`
	OpenNow             bool          `koanf:"open_now"`
	SearchTerm          string        `koanf:"search_term"`
}

// BreakerConfig configures the circuit breakers around upstream providers.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// SecurityConfig holds authentication and request limiting settings.
type SecurityConfig struct {
	// AuthMode is jwt or none. none is rejected in production.
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// KafkaConfig configures the recommendation event publisher.
type KafkaConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Brokers      []string      `koanf:"brokers"`
	Topic        string        `koanf:"topic"`
	ClientID     string        `koanf:"client_id"`
	BatchTimeout time.Duration `koanf:"batch_timeout"`
	QueueSize    int           `koanf:"queue_size"`
}

// ArchiveConfig configures the S3-compatible snapshot archive.
type ArchiveConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
}
