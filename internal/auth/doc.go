// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

/*
Package auth identifies the caller of every API request.

Two modes are supported, selected by security.auth_mode:

  - jwt: an HS256 bearer token (Authorization header or "token" cookie)
    whose subject is the user ID.
  - none: the caller is taken from the X-User-ID header. Development only;
    configuration validation rejects it in production.

On success the user ID is attached to the request context through
logging.ContextWithUserID so handlers and log lines share one source of
truth. Use UserID to read it back.
*/
package auth
