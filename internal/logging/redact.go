// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package logging

import (
	"net/url"
	"strings"
)

// SanitizeToken masks a bearer token or API key, keeping the first and last
// four characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeURL removes credentials and sensitive query parameters from a URL
// before it is logged. Upstream geocoding and search URLs carry API keys in
// the query string.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.User("***")
	}
	q := u.Query()
	changed := false
	for key := range q {
		if isSensitiveKey(key) {
			q.Set(key, "***")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// SanitizeDSN hides the password in a database connection string.
func SanitizeDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		return SanitizeURL(dsn)
	}
	// key=value form used by libpq.
	fields := strings.Fields(dsn)
	for i, f := range fields {
		if k, _, ok := strings.Cut(f, "="); ok && isSensitiveKey(k) {
			fields[i] = k + "=***"
		}
	}
	return strings.Join(fields, " ")
}

func isSensitiveKey(key string) bool {
	switch strings.ToLower(key) {
	case "key", "api_key", "apikey", "token", "access_token", "password", "secret", "authorization":
		return true
	}
	return false
}
