// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/grubsync/config.yaml",
	"/etc/grubsync/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns the built-in configuration before files and environment
// are applied.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			Timeout:        30 * time.Second,
			RequestTimeout: 30 * time.Second,
			Environment:    "development",
		},
		Database: DatabaseConfig{
			Driver:    "duckdb",
			Path:      "/data/grubsync.duckdb",
			MaxMemory: "512MB",
			Threads:   0,
			MaxConns:  10,

			CheckpointInterval: 5 * time.Minute,
		},
		Geocoding: GeocodingConfig{
			Provider:  "google",
			BaseURL:   "https://maps.googleapis.com",
			UserAgent: "grubsync/1.0",
			Timeout:   10 * time.Second,
			CacheSize: 10000,
			CacheTTL:  24 * time.Hour,
		},
		Search: SearchConfig{
			BaseURL: "https://api.yelp.com",
			Timeout: 10 * time.Second,
		},
		Recommend: RecommendConfig{
			RadiusMiles:         8,
			RingPoints:          6,
			TopCuisines:         3,
			ZoneLimit:           20,
			FallbackLimit:       50,
			MinResults:          5,
			FallbackZones:       3,
			MaxResults:          10,
			DistanceWindowMiles: 3,
			CallTimeout:         10 * time.Second,
			GeocodeConcurrency:  8,
			SearchConcurrency:   8,
			SortBy:              "rating",
			OpenNow:             true,
			SearchTerm:          "restaurants",
		},
		Breaker: BreakerConfig{
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      2 * time.Minute,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Kafka: KafkaConfig{
			Enabled:      false,
			Brokers:      []string{"localhost:9092"},
			Topic:        "grubsync.recommendations",
			ClientID:     "grubsync",
			BatchTimeout: time.Second,
			QueueSize:    256,
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Bucket:  "grubsync-recommendations",
			Region:  "us-east-1",
			UseSSL:  true,
		},
	}
}

// LoadWithKoanf loads configuration with precedence ENV > file > defaults
// and validates the result.
func LoadWithKoanf() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadForPipeline loads configuration the same way but validates only the
// sections an offline recommendation run needs. The HTTP server sections
// are ignored.
func LoadForPipeline() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidatePipeline(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
	"kafka.brokers",
}

// processSliceFields splits comma-separated env values for list settings.
// Values that came from YAML are already slices and are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":       "server.host",
	"http_port":       "server.port",
	"server_timeout":  "server.timeout",
	"request_timeout": "server.request_timeout",
	"environment":     "server.environment",

	"database_driver":    "database.driver",
	"duckdb_path":        "database.path",
	"duckdb_max_memory":  "database.max_memory",
	"duckdb_threads":     "database.threads",
	"postgres_dsn":       "database.postgres_dsn",
	"database_url":       "database.postgres_dsn",
	"postgres_max_conns": "database.max_conns",

	"duckdb_checkpoint_interval": "database.checkpoint_interval",

	"geocoding_provider":   "geocoding.provider",
	"google_maps_api_key":  "geocoding.api_key",
	"geocoding_api_key":    "geocoding.api_key",
	"geocoding_base_url":   "geocoding.base_url",
	"nominatim_user_agent": "geocoding.user_agent",
	"geocoding_timeout":    "geocoding.timeout",
	"geocoding_cache_size": "geocoding.cache_size",
	"geocoding_cache_ttl":  "geocoding.cache_ttl",

	"yelp_api_key":   "search.api_key",
	"yelp_base_url":  "search.base_url",
	"search_timeout": "search.timeout",

	"recommend_radius_miles":          "recommend.radius_miles",
	"recommend_ring_points":           "recommend.ring_points",
	"recommend_top_cuisines":          "recommend.top_cuisines",
	"recommend_zone_limit":            "recommend.zone_limit",
	"recommend_fallback_limit":        "recommend.fallback_limit",
	"recommend_min_results":           "recommend.min_results",
	"recommend_fallback_zones":        "recommend.fallback_zones",
	"recommend_max_results":           "recommend.max_results",
	"recommend_distance_window_miles": "recommend.distance_window_miles",
	"recommend_call_timeout":          "recommend.call_timeout",
	"recommend_geocode_concurrency":   "recommend.geocode_concurrency",
	"recommend_search_concurrency":    "recommend.search_concurrency",
	"recommend_sort_by":               "recommend.sort_by",
	"recommend_open_now":              "recommend.open_now",
	"recommend_search_term":           "recommend.search_term",

	"breaker_max_requests":  "breaker.max_requests",
	"breaker_interval":      "breaker.interval",
	"breaker_timeout":       "breaker.timeout",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",

	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"kafka_enabled":       "kafka.enabled",
	"kafka_brokers":       "kafka.brokers",
	"kafka_topic":         "kafka.topic",
	"kafka_client_id":     "kafka.client_id",
	"kafka_batch_timeout": "kafka.batch_timeout",
	"kafka_queue_size":    "kafka.queue_size",

	"archive_enabled":  "archive.enabled",
	"minio_endpoint":   "archive.endpoint",
	"minio_access_key": "archive.access_key",
	"minio_secret_key": "archive.secret_key",
	"minio_use_ssl":    "archive.use_ssl",
	"archive_bucket":   "archive.bucket",
	"archive_region":   "archive.region",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped names return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
