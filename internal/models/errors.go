// GrubSync - Group Dining Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/grubsync

package models

import "errors"

// ErrorKind classifies a recommendation failure for the caller.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindForbidden            ErrorKind = "forbidden"
	KindNoPreferences        ErrorKind = "no_preferences"
	KindMissingOwnPreference ErrorKind = "missing_own_preference"
	KindNoValidLocations     ErrorKind = "no_valid_locations"
	KindNoResults            ErrorKind = "no_results"
	KindUpstreamUnavailable  ErrorKind = "upstream_unavailable"
	KindEmptyInput           ErrorKind = "empty_input"
)

// Error is a classified failure with a message suitable for end users.
// Two *Error values match under errors.Is when their kinds are equal.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "group not found"}
	ErrForbidden            = &Error{Kind: KindForbidden, Message: "you are not a member of this group"}
	ErrNoPreferences        = &Error{Kind: KindNoPreferences, Message: "no preferences submitted yet"}
	ErrMissingOwnPreference = &Error{Kind: KindMissingOwnPreference, Message: "submit your own preferences first"}
	ErrNoValidLocations     = &Error{Kind: KindNoValidLocations, Message: "none of the member locations could be resolved"}
	ErrNoResults            = &Error{Kind: KindNoResults, Message: "no restaurants matched the group"}
	ErrUpstreamUnavailable  = &Error{Kind: KindUpstreamUnavailable, Message: "upstream service unavailable"}
	ErrEmptyInput           = &Error{Kind: KindEmptyInput, Message: "no preferences to aggregate"}
)

// NewError creates an Error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an Error of the given kind that wraps err.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
