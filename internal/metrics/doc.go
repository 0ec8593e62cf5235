// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

/*
Package metrics defines the Prometheus instrumentation for GrubSync.

All collectors are registered with the default registry through promauto
and exposed by the API router at /metrics.

# Metric Families

HTTP:
  - grubsync_api_requests_total{method, endpoint, status_code}
  - grubsync_api_request_duration_seconds{method, endpoint}
  - grubsync_api_active_requests
  - grubsync_api_rate_limit_hits_total{endpoint}

Recommendation pipeline:
  - grubsync_recommendation_requests_total{outcome}
  - grubsync_recommendation_duration_seconds
  - grubsync_recommendation_candidates
  - grubsync_geocode_requests_total{provider, result}
  - grubsync_zone_searches_total{pass, result}

Upstream resilience:
  - grubsync_circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - grubsync_circuit_breaker_requests_total{name, result}
  - grubsync_circuit_breaker_consecutive_failures{name}
  - grubsync_circuit_breaker_state_transitions_total{name, from_state, to_state}

Storage and sinks:
  - grubsync_db_query_duration_seconds{operation, table}
  - grubsync_db_query_errors_total{operation, table}
  - grubsync_events_published_total{result}
  - grubsync_event_queue_depth
  - grubsync_archive_writes_total{result}

Process:
  - grubsync_app_info{version, go_version}
*/
package metrics
