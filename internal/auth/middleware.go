// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/grubsync/internal/logging"
)

const (
	ModeJWT  = "jwt"
	ModeNone = "none"

	// UserIDHeader names the caller when auth mode is none.
	UserIDHeader = "X-User-ID"

	tokenCookie = "token"
)

var (
	errMissingToken  = errors.New("missing token")
	errInvalidHeader = errors.New("invalid authorization header")
	errMissingUserID = errors.New("missing " + UserIDHeader + " header")
)

// Middleware authenticates API requests.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
}

// NewMiddleware returns an authenticating middleware. jwtManager may be nil
// when authMode is none.
func NewMiddleware(jwtManager *JWTManager, authMode string) *Middleware {
	if authMode == "" {
		authMode = ModeJWT
	}
	return &Middleware{jwtManager: jwtManager, authMode: authMode}
}

// Authenticate resolves the caller and rejects the request with 401 when it
// cannot.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.identify(r)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication failed")
			writeUnauthorized(w, r, err)
			return
		}

		ctx := logging.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) identify(r *http.Request) (string, error) {
	if m.authMode == ModeNone {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			return "", errMissingUserID
		}
		return userID, nil
	}

	if m.jwtManager == nil {
		return "", errors.New("jwt authentication is not configured")
	}

	token, err := extractToken(r)
	if err != nil {
		return "", err
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Str("token", logging.SanitizeToken(token)).Msg("Token rejected")
		return "", err
	}
	return claims.UserID(), nil
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the token cookie.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie(tokenCookie)
		if err != nil || cookie.Value == "" {
			return "", errMissingToken
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errInvalidHeader
	}

	return parts[1], nil
}

// UserID returns the authenticated caller, or "" outside an authenticated
// request.
func UserID(ctx context.Context) string {
	return logging.UserIDFromContext(ctx)
}

type unauthorizedBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	var body unauthorizedBody
	body.Error.Code = "UNAUTHORIZED"
	body.Error.Message = "Unauthorized: " + err.Error()
	body.Error.RequestID = logging.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if errors.Is(err, errMissingToken) || errors.Is(err, errInvalidHeader) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="grubsync"`)
	}
	w.WriteHeader(http.StatusUnauthorized)
	if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
		logging.Error().Err(encErr).Msg("Failed to encode unauthorized response")
	}
}
