// Package services defines the business logic for craft requests,
// characters, claims, fulfillment, and composition sessions. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import (
	"errors"
	"fmt"
)

// Request lifecycle errors.
var (
	// ErrRequestNotFound indicates that the referenced craft request does
	// not exist.
	ErrRequestNotFound = errors.New("request not found")

	// ErrAlreadyClaimed is returned when a claim lost the race to another
	// crafter. Callers must not retry automatically; the request is taken.
	ErrAlreadyClaimed = errors.New("request already claimed")

	// ErrNotClaimed is returned when a release is attempted on a request
	// that has no active claim held by the caller.
	ErrNotClaimed = errors.New("request not claimed")

	// ErrExceedsRequested is the defensive guard for quantity math that
	// would exceed the requested total. Completion clamps, so under normal
	// operation this is never returned; it exists for callers that
	// pre-validate amounts.
	ErrExceedsRequested = errors.New("completion exceeds requested quantity")

	// ErrInvalidAmount is returned when a partial completion amount is not
	// a positive integer.
	ErrInvalidAmount = errors.New("completion amount must be >= 1")

	// ErrDuplicateSubmission is returned when the duplicate guard matched a
	// near-identical request inside the suppression window.
	ErrDuplicateSubmission = errors.New("duplicate submission")

	// ErrUnknownStatus is returned when a caller supplies a status value
	// outside the fixed vocabulary. Legacy values are rejected, never
	// remapped.
	ErrUnknownStatus = errors.New("unknown status value")
)

// Character errors.
var (
	// ErrCharacterNotFound indicates that the requested character does not
	// exist or is not owned by the current user.
	ErrCharacterNotFound = errors.New("character not found")

	// ErrDuplicateCharacter is returned when a user registers a character
	// name they already have.
	ErrDuplicateCharacter = errors.New("character already registered")

	// ErrInvalidCharacterKind is returned when the kind is neither "main"
	// nor "alt".
	ErrInvalidCharacterKind = errors.New("character kind must be main or alt")
)

// Session errors.
var (
	// ErrSessionNotFound is returned when a session key does not resolve to
	// a live session. Expired and explicitly deleted sessions are
	// deliberately indistinguishable.
	ErrSessionNotFound = errors.New("session not found")
)

// MissingFieldError names the required request-creation field that was
// absent. It unwraps to a stable sentinel so callers can branch with
// errors.Is while still reading the field name via errors.As.
type MissingFieldError struct {
	Field string
}

// ErrMissingField is the sentinel all MissingFieldError values unwrap to.
var ErrMissingField = errors.New("missing required field")

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Unwrap lets errors.Is(err, ErrMissingField) succeed.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// InvalidTransitionError reports a status change that is not on the allowed
// edge table, carrying both endpoints for diagnostics.
type InvalidTransitionError struct {
	From string
	To   string
}

// ErrInvalidTransition is the sentinel all InvalidTransitionError values
// unwrap to.
var ErrInvalidTransition = errors.New("invalid status transition")

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// Unwrap lets errors.Is(err, ErrInvalidTransition) succeed.
func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
