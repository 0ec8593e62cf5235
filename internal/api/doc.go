// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

/*
Package api exposes GrubSync over HTTP using the Chi router.

Routes (all JSON, all under /api/v1):

	GET  /health                                   liveness and store reachability (no auth)
	POST /groups                                   create a group; the caller becomes owner
	GET  /groups/{groupID}                         group details (members only)
	POST /groups/{groupID}/members                 join a group
	PUT  /groups/{groupID}/preferences             submit or replace the caller's preferences
	GET  /groups/{groupID}/preferences             every member's preferences (members only)
	POST /groups/{groupID}/recommendations         run the recommendation pipeline
	GET  /groups/{groupID}/recommendations/latest  the last stored result (members only)

Prometheus metrics are served at /metrics outside the versioned prefix.

Every response uses the envelope

	{"success": bool, "data": ..., "error": {"code", "message", "details", "request_id"}, "meta": {...}}

Domain failures from the models package map to HTTP status codes in
statusForKind; anything unclassified is a 500.

Middleware order: request ID and logging context, real IP, panic recovery,
CORS, then for /api/v1 rate limiting, security headers, Prometheus
instrumentation and (except /health) authentication.
*/
package api
