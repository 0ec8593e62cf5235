// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package middleware provides chi-compatible HTTP middleware that is not
// tied to the API handlers: Prometheus request instrumentation and
// security response headers.
//
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.SecurityHeaders)
package middleware
