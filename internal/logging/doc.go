// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

// Package logging provides the process-wide zerolog logger for GrubSync.
//
// The global logger is configured once from main via Init and is then used
// either directly or through a request context:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("group_id", id).Msg("Recommendation stored")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Geocoding failed")
//
// Ctx attaches the request ID, correlation ID and authenticated user ID
// stored in the context by the HTTP middleware.
//
// Libraries that expect a *slog.Logger (sutureslog in particular) are given
// NewSlogLogger, which forwards records to zerolog.
//
// Always terminate event chains with Msg or Send; an unterminated event is
// never written.
package logging
