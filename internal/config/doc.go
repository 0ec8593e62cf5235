// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

/*
Package config loads GrubSync configuration with Koanf v2.

Configuration is layered, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/grubsync/config.yaml, /etc/grubsync/config.yml
 3. Environment variables listed in envMappings

Unmapped environment variables are ignored. List-valued settings
(CORS_ORIGINS, KAFKA_BROKERS) accept comma-separated values.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, SERVER_TIMEOUT, REQUEST_TIMEOUT, ENVIRONMENT

Database:
  - DATABASE_DRIVER: duckdb (default) or postgres
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - POSTGRES_DSN (alias DATABASE_URL), POSTGRES_MAX_CONNS

Upstream providers:
  - GEOCODING_PROVIDER (google|nominatim), GOOGLE_MAPS_API_KEY,
    GEOCODING_BASE_URL, NOMINATIM_USER_AGENT, GEOCODING_TIMEOUT
  - YELP_API_KEY, YELP_BASE_URL, SEARCH_TIMEOUT
  - BREAKER_MAX_REQUESTS, BREAKER_INTERVAL, BREAKER_TIMEOUT,
    BREAKER_MIN_REQUESTS, BREAKER_FAILURE_RATIO

Recommendation tuning:
  - RECOMMEND_RADIUS_MILES, RECOMMEND_RING_POINTS, RECOMMEND_TOP_CUISINES,
    RECOMMEND_MAX_RESULTS, RECOMMEND_MIN_RESULTS, RECOMMEND_CALL_TIMEOUT, ...

Security:
  - AUTH_MODE (jwt|none), JWT_SECRET, SESSION_TIMEOUT,
    RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS

Sinks:
  - KAFKA_ENABLED, KAFKA_BROKERS, KAFKA_TOPIC, KAFKA_CLIENT_ID
  - ARCHIVE_ENABLED, MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY,
    MINIO_USE_SSL, ARCHIVE_BUCKET, ARCHIVE_REGION

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

The returned *Config is validated and read-only; it is safe to share
between goroutines.
*/
package config
