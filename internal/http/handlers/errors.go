// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, unauthorized, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (e.g., already_claimed, invalid_transition) are reserved
//     for lifecycle errors that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "already_claimed",
//	  "message": "request already claimed"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-guild-backend/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeMissingField      = "missing_field"
	ErrCodeUnknownStatus     = "unknown_status"
	ErrCodeDuplicate         = "duplicate_submission"
	ErrCodeAlreadyClaimed    = "already_claimed"
	ErrCodeNotClaimed        = "not_claimed"
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
)

// failService translates service-layer sentinel errors into the HTTP error
// taxonomy. Every handler funnels its service errors through here so the
// status/code pairing is identical across endpoints. Unrecognized errors are
// reported as 500 internal_error.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingField):
		fail(c, http.StatusBadRequest, ErrCodeMissingField, err.Error())
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidCharacterKind):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrUnknownStatus):
		fail(c, http.StatusBadRequest, ErrCodeUnknownStatus, err.Error())
	case errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrCharacterNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyClaimed):
		fail(c, http.StatusConflict, ErrCodeAlreadyClaimed, err.Error())
	case errors.Is(err, services.ErrNotClaimed):
		fail(c, http.StatusConflict, ErrCodeNotClaimed, err.Error())
	case errors.Is(err, services.ErrDuplicateSubmission),
		errors.Is(err, services.ErrDuplicateCharacter):
		fail(c, http.StatusConflict, ErrCodeDuplicate, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrExceedsRequested):
		fail(c, http.StatusConflict, ErrCodeInvalidTransition, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
